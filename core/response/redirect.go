package response

import (
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/handler"
)

// RedirectSeeOther creates a 303 See Other response, used after form posts
// so a reload does not resubmit the form.
func RedirectSeeOther(url string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		http.Redirect(w, r, url, http.StatusSeeOther)
		return nil
	}
}

package response

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/handler"
)

// ErrNilTemplate is returned when a template response has no template set.
var ErrNilTemplate = errors.New("response: template is nil")

// Template renders the named template from a template set with 200 OK status.
// An empty name executes the set's root template.
func Template(tmpl *template.Template, name string, data any) handler.Response {
	return TemplateWithStatus(tmpl, name, data, http.StatusOK)
}

// TemplateWithStatus renders the named template with a custom status code.
// The output is buffered so a failing template writes nothing.
func TemplateWithStatus(tmpl *template.Template, name string, data any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if tmpl == nil {
			return ErrNilTemplate
		}

		var buf bytes.Buffer
		var err error
		if name != "" {
			err = tmpl.ExecuteTemplate(&buf, name, data)
		} else {
			err = tmpl.Execute(&buf, data)
		}
		if err != nil {
			return err
		}

		return write(w, "text/html; charset=utf-8", status, buf.Bytes())
	}
}

package response

import (
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/handler"
)

// Render executes resp against the context's writer.
// A failing response is reported as 500 Internal Server Error.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

func write(w http.ResponseWriter, contentType string, status int, body []byte) error {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(body) == 0 {
		return nil
	}
	_, err := w.Write(body)
	return err
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return write(w, "text/plain; charset=utf-8", status, []byte(content))
	}
}

// HTML creates a text/html response from a pre-rendered string.
func HTML(content string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return write(w, "text/html; charset=utf-8", http.StatusOK, []byte(content))
	}
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status creates an empty response with the specified status code.
func Status(code int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return write(w, "", code, nil)
	}
}

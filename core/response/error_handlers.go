package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/crowdpredictor/trafficmap/core/handler"
)

type statusCode interface {
	StatusCode() int
}

// AsHTTPError converts any error to an HTTPError. HTTPError values pass through,
// errors implementing StatusCode() map to the matching predefined error, and
// everything else becomes a 500.
func AsHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = NewHTTPError(status, "error")
		if base.Message == "" {
			base = ErrInternalServerError
		}
	}
	return base.WithError(err)
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := AsHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Message, httpErr.Status))
}

// JSONErrorHandler renders errors as JSON.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := AsHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}

// NegotiatingErrorHandler renders JSON for clients that accept it or hit /api/
// paths and plain text for everyone else.
func NegotiatingErrorHandler[C handler.Context](ctx C, err error) {
	if WantsJSON(ctx.Request()) {
		JSONErrorHandler(ctx, err)
		return
	}
	ErrorHandler(ctx, err)
}

// WantsJSON reports whether the request expects a JSON response.
func WantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/health/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

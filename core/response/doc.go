// Package response provides handler.Response constructors for text, JSON,
// html/template pages and redirects, plus error handlers that map errors to
// HTTP status codes.
//
// Handlers return responses instead of writing to the ResponseWriter:
//
//	func home(ctx *router.Context) handler.Response {
//		return response.Template(pages, "home", data)
//	}
//
// Errors returned from a response reach the router's error handler. Errors
// that implement StatusCode() int keep their status; HTTPError values are
// rendered with their code and message. NegotiatingErrorHandler picks JSON
// for /api/ and /health/ paths or Accept: application/json, and plain text
// otherwise.
package response

// Package handler defines the request-processing abstractions shared by the
// router, middleware and application handlers.
//
// A handler receives a Context and returns a Response; the Response is a
// deferred renderer executed by the router, which passes any rendering error
// to the configured ErrorHandler:
//
//	func home(ctx *router.Context) handler.Response {
//		if ctx.Param("id") == "" {
//			return response.Error(response.ErrBadRequest)
//		}
//		return response.String("ok")
//	}
//
// Middleware composes around HandlerFunc values; Chain applies a list of
// middlewares with the first one outermost.
package handler

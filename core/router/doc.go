// Package router adapts gorilla/mux to the handler abstractions in core/handler.
//
// Handlers return a handler.Response; the router executes it and forwards any
// error (including recovered panics) to the configured error handler. Path
// variables use gorilla syntax and are read with Context.Param:
//
//	r := router.New[*router.Context](
//		router.WithErrorHandler(response.ErrorHandler[*router.Context]),
//	)
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Get("/favorites/{id}", showFavorite)
//
//	authed := r.With(requireAuth)
//	authed.Post("/favorites/{id}/delete", deleteFavorite)
//
// Middleware registered with Use only wraps routes registered afterwards.
package router

// Package middleware provides the HTTP middlewares shared by the web app.
//
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.Logging[*router.Context](log),
//		middleware.SecurityHeaders[*router.Context](),
//		middleware.BodyLimit[*router.Context](0),
//		middleware.Session[*router.Context](transport, log),
//	)
//
//	private := r.With(middleware.RequireAuth[*router.Context]("/"))
//	private.Get("/home", home)
//
//	r.With(middleware.RateLimit[*router.Context](limiter, log)).Post("/login", login)
//
// Middlewares run in the order given; each wraps the response of the next so
// header writes happen before the body.
package middleware

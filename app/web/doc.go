// Package web is the browser client of the CrowdPredictor traffic service.
//
// It renders server-side pages for login and registration, route search,
// search history and favorite routes, and exposes a small JSON API used by
// the map widget. Every backend call carries the caller's session, which is
// stored server side and referenced by a sealed cookie:
//
//	app, err := web.NewApp(ctx)
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx)
//
// Configuration is read from the environment (see Config). Without a
// GOOGLE_MAPS_API_KEY routes are resolved as straight lines between two
// fixed points so the rest of the app keeps working. Login and registration
// attempts are throttled per client IP unless LOGIN_RATE_CAPACITY is 0.
package web

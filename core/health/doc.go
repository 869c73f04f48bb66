// Package health provides liveness and readiness handlers.
//
//	r.Get("/health/live", health.Liveness[*router.Context])
//	r.Get("/health/ready", health.Readiness[*router.Context](log,
//		health.Check{Name: "backend", Fn: backendPing},
//		health.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//
// Readiness runs its checks concurrently and reports each one by name.
package health

package web

import (
	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/health"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/router"
	"github.com/crowdpredictor/trafficmap/core/static"
	"github.com/crowdpredictor/trafficmap/middleware"
)

const (
	pathLogin     = "/"
	pathHome      = "/home"
	pathHistory   = "/history"
	pathFavorites = "/favorites"
)

func (a *App) routes() {
	r := a.router

	r.Use(
		middleware.RequestID[*Context](),
		middleware.Logging[*Context](a.logger),
		middleware.SecurityHeadersWithConfig[*Context](a.securityHeaders()),
		middleware.BodyLimit[*Context](middleware.DefaultBodyLimit),
	)

	r.Get("/health/live", health.Liveness[*Context])
	r.Get("/health/ready", health.Readiness[*Context](a.logger, a.checks()...))
	r.Get("/assets/{file:.*}", static.FS[*Context](assetFS,
		static.WithSubFS("assets"),
		static.WithStripPrefix("/assets"),
		static.WithCacheControl("public, max-age=3600"),
	))

	r.Use(middleware.Session[*Context](a.transport, a.logger))

	r.Group(func(guest router.Router[*Context]) {
		guest.Use(middleware.RequireGuest[*Context](pathHome))
		guest.Get(pathLogin, a.loginPage)

		attempts := guest
		if a.limiter != nil {
			attempts = guest.With(middleware.RateLimit[*Context](a.limiter, a.logger))
		}
		attempts.Post("/login", a.login)
		attempts.Post("/register", a.register)
	})
	r.Post("/logout", a.logout)

	r.Group(func(private router.Router[*Context]) {
		private.Use(middleware.RequireAuth[*Context](pathLogin))

		private.Get(pathHome, a.home)
		private.Post("/search", a.search)
		private.Post("/api/search", a.apiSearch)

		private.Get(pathHistory, a.history)
		private.Post("/history/{id}/repeat", a.repeatSearch)
		private.Post("/history/{id}/favorite", a.favoriteFromHistory)

		private.Get(pathFavorites, a.favorites)
		private.Post(pathFavorites, a.addFavorite)
		private.Post("/favorites/{id}/delete", a.deleteFavorite)
		private.Post("/favorites/{id}/check", a.checkFavorite)
	})

	r.NotFound(func(ctx *Context) handler.Response {
		return response.Error(response.ErrNotFound)
	})
}

func (a *App) securityHeaders() middleware.SecurityHeadersConfig {
	cfg := middleware.MapPageSecurity
	cfg.IsDevelopment = a.config.IsDevelopment()
	return cfg
}

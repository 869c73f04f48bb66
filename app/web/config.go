package web

import (
	"github.com/crowdpredictor/trafficmap/core/cookie"
	"github.com/crowdpredictor/trafficmap/core/server"
	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/core/sessiontransport"
	"github.com/crowdpredictor/trafficmap/integration/database/redis"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/directions"
	"github.com/crowdpredictor/trafficmap/pkg/ratelimiter"
)

type Config struct {
	Cookie        cookie.Config
	Session       session.Config
	SessionCookie sessiontransport.CookieConfig
	Server        server.Config
	Redis         redis.Config
	Backend       backend.Config
	Directions    directions.Config
	LoginRate     ratelimiter.Config `envPrefix:"LOGIN_"`

	AppName  string `env:"APP_NAME" envDefault:"crowdpredictor"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DisplayLocale formats numbers and dates on the pages.
	DisplayLocale string `env:"DISPLAY_LOCALE" envDefault:"tr"`
	// MapsBrowserKey loads the Maps JavaScript widget. Without it pages show
	// the route as text only.
	MapsBrowserKey string `env:"GOOGLE_MAPS_BROWSER_KEY"`
}

// IsDevelopment reports whether the app runs in a development environment.
func (c Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

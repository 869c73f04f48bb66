package cli

import (
	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/directions"
)

type Config struct {
	Backend    backend.Config
	Directions directions.Config
	Session    session.Config

	// ProfilePath is the session file. Empty means the user config directory.
	ProfilePath   string `env:"CROWDPREDICTOR_PROFILE"`
	DisplayLocale string `env:"DISPLAY_LOCALE" envDefault:"tr"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"warn"`
}

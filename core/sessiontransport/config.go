package sessiontransport

import (
	"github.com/crowdpredictor/trafficmap/core/cookie"
	"github.com/crowdpredictor/trafficmap/core/session"
)

// CookieConfig configures the cookie transport.
type CookieConfig struct {
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"__session"`
}

// NewCookieFromConfig creates a cookie transport from configuration.
func NewCookieFromConfig(cfg CookieConfig, mgr *session.Manager, cookieMgr *cookie.Manager, opts ...Option) *Cookie {
	name := cfg.CookieName
	if name == "" {
		name = "__session"
	}
	return NewCookie(mgr, cookieMgr, name, opts...)
}

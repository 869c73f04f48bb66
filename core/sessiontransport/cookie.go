package sessiontransport

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/crowdpredictor/trafficmap/core/cookie"
	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/session"
)

// Cookie maps a browser to a session id carried in a sealed cookie.
// The session record itself stays on the server.
type Cookie struct {
	manager   *session.Manager
	cookieMgr *cookie.Manager
	name      string
	maxAge    int
	logger    *slog.Logger
}

// Option configures a Cookie transport.
type Option func(*Cookie)

// WithLogger sets the logger for store failures that do not fail the request.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cookie) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCookie creates a cookie-based session transport.
func NewCookie(mgr *session.Manager, cookieMgr *cookie.Manager, name string, opts ...Option) *Cookie {
	c := &Cookie{manager: mgr, cookieMgr: cookieMgr, name: name, logger: logger.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	if ttl := mgr.TTL(); ttl > 0 {
		c.maxAge = int(ttl.Seconds())
	}
	return c
}

// Load restores the session for the request. A missing or tampered cookie
// yields the anonymous session without touching the store.
func (c *Cookie) Load(ctx handler.Context) (session.Session, error) {
	id, err := c.cookieMgr.GetSealed(ctx.Request(), c.name)
	if err != nil || id == "" {
		return session.Anonymous(), nil
	}
	return c.manager.Restore(ctx, id)
}

// Login persists the authenticated pair under a fresh session id and points
// the cookie at it. Any record under the previous id is removed.
func (c *Cookie) Login(ctx handler.Context, token string, user session.User) (session.Session, error) {
	previous, _ := c.cookieMgr.GetSealed(ctx.Request(), c.name)

	id := uuid.NewString()
	sess, err := c.manager.Login(ctx, id, token, user)
	if err != nil {
		return session.Anonymous(), err
	}

	if err := c.cookieMgr.SetSealed(ctx.ResponseWriter(), c.name, id, cookie.WithMaxAge(c.maxAge)); err != nil {
		if lerr := c.manager.Logout(ctx, id); lerr != nil {
			c.logger.ErrorContext(ctx, "failed to roll back session after cookie error",
				logger.Component("session"),
				logger.SessionID(id),
				logger.Errors(err, lerr))
		}
		return session.Anonymous(), fmt.Errorf("sessiontransport: set cookie: %w", err)
	}

	if previous != "" && previous != id {
		if err := c.manager.Logout(ctx, previous); err != nil {
			c.logger.WarnContext(ctx, "failed to remove previous session",
				logger.Component("session"),
				logger.SessionID(previous),
				logger.Error(err))
		}
	}
	return sess, nil
}

// Logout deletes the persisted pair and the cookie. It is idempotent.
func (c *Cookie) Logout(ctx handler.Context) error {
	id, err := c.cookieMgr.GetSealed(ctx.Request(), c.name)
	c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)
	if err != nil || id == "" {
		return nil
	}
	return c.manager.Logout(ctx, id)
}

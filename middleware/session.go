package middleware

import (
	"context"
	"log/slog"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/session"
)

type sessionKey struct{}

// SessionLoader resolves the session of a request.
// sessiontransport.Cookie is the production implementation.
type SessionLoader interface {
	Load(ctx handler.Context) (session.Session, error)
}

// Session loads the request's session and stores it in the context. A load
// failure is logged and the request continues as anonymous.
func Session[C handler.Context](loader SessionLoader, log *slog.Logger) handler.Middleware[C] {
	if loader == nil {
		panic("session middleware: loader is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			sess, err := loader.Load(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return response.Error(ctxErr)
				}
				log.ErrorContext(ctx, "failed to load session", logger.Component("session"), logger.Error(err))
				sess = session.Anonymous()
			}
			SetSession(ctx, sess)
			return next(ctx)
		}
	}
}

// GetSession returns the session stored by Session, or the anonymous session.
func GetSession(ctx context.Context) session.Session {
	if sess, ok := ctx.Value(sessionKey{}).(session.Session); ok {
		return sess
	}
	return session.Anonymous()
}

// SetSession replaces the session for the rest of the request.
func SetSession(ctx handler.Context, sess session.Session) {
	ctx.SetValue(sessionKey{}, sess)
}

// RequireAuth lets authenticated sessions through. Anonymous requests get
// 401 when they want JSON and a redirect to loginPath otherwise.
func RequireAuth[C handler.Context](loginPath string) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if GetSession(ctx).IsAuthenticated() {
				return next(ctx)
			}
			if response.WantsJSON(ctx.Request()) {
				return response.Error(response.ErrUnauthorized)
			}
			return response.RedirectSeeOther(loginPath)
		}
	}
}

// RequireGuest redirects authenticated sessions to homePath.
func RequireGuest[C handler.Context](homePath string) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if GetSession(ctx).IsAuthenticated() {
				return response.RedirectSeeOther(homePath)
			}
			return next(ctx)
		}
	}
}

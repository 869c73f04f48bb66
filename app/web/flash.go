package web

import (
	"errors"

	"github.com/crowdpredictor/trafficmap/core/cookie"
	"github.com/crowdpredictor/trafficmap/core/logger"
)

const flashKey = "notice"

const (
	flashSuccess = "success"
	flashError   = "error"
)

// flash is a one-shot message shown after a redirect.
type flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (a *App) setFlash(ctx *Context, kind, message string) {
	if err := a.cookies.SetFlash(ctx.ResponseWriter(), flashKey, flash{Kind: kind, Message: message}); err != nil {
		a.logger.WarnContext(ctx, "failed to set flash message",
			logger.Component("web"),
			logger.Error(err))
	}
}

func (a *App) takeFlash(ctx *Context) *flash {
	var f flash
	err := a.cookies.GetFlash(ctx.ResponseWriter(), ctx.Request(), flashKey, &f)
	if err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			a.logger.DebugContext(ctx, "dropped unreadable flash message",
				logger.Component("web"),
				logger.Error(err))
		}
		return nil
	}
	return &f
}

package web

import (
	"errors"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/validator"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/directions"
	"github.com/crowdpredictor/trafficmap/pkg/search"
)

const (
	msgMissingPlaces   = "Please enter both an origin and a destination."
	msgRouteNotFound   = "Route not found."
	msgUnreachable     = "Could not reach the server. Please try again."
	msgSessionEnded    = "Your session has ended. Please log in again."
	msgInvalidResponse = "The server sent an unexpected response."
	msgUnexpected      = "Something went wrong. Please try again."
)

// userMessage is the text shown for a failed operation. Backend messages are
// shown as the backend wrote them.
func userMessage(err error) string {
	var verrs validator.ValidationErrors
	var berr *backend.Error
	var httpErr response.HTTPError
	switch {
	case errors.Is(err, search.ErrValidation):
		return msgMissingPlaces
	case errors.As(err, &verrs):
		return verrs.Error()
	case errors.Is(err, search.ErrRouteNotFound), errors.Is(err, directions.ErrNoRoute):
		return msgRouteNotFound
	case backend.IsConnectivity(err):
		return msgUnreachable
	case backend.IsAuth(err):
		return msgSessionEnded
	case errors.As(err, &berr):
		if berr.Message != "" {
			return berr.Message
		}
		return msgUnexpected
	case errors.Is(err, backend.ErrInvalidResponse):
		return msgInvalidResponse
	case errors.As(err, &httpErr):
		return httpErr.Message
	default:
		return msgUnexpected
	}
}

// apiError maps a failed operation to the JSON error of the API routes.
func apiError(err error) response.HTTPError {
	var verrs validator.ValidationErrors
	var httpErr response.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.Is(err, search.ErrValidation):
		return response.ErrUnprocessableEntity.WithMessage(msgMissingPlaces).WithError(err)
	case errors.As(err, &verrs):
		return response.ErrUnprocessableEntity.
			WithMessage(verrs.Error()).
			WithDetails(map[string]any{"fields": verrs.Fields()})
	case errors.Is(err, search.ErrRouteNotFound), errors.Is(err, directions.ErrNoRoute):
		return response.ErrNotFound.WithMessage(msgRouteNotFound).WithError(err)
	case backend.IsAuth(err):
		return response.ErrUnauthorized.WithMessage(msgSessionEnded).WithError(err)
	case backend.IsConnectivity(err):
		return response.ErrServiceUnavailable.WithMessage(msgUnreachable).WithError(err)
	default:
		return response.ErrBadGateway.WithMessage(userMessage(err)).WithError(err)
	}
}

// signOut ends a session the backend no longer accepts and sends the user to
// the login page.
func (a *App) signOut(ctx *Context, cause error) handler.Response {
	a.logger.InfoContext(ctx, "session rejected by backend, logging out",
		logger.Component("web"),
		logger.Error(cause))
	if err := a.transport.Logout(ctx); err != nil {
		a.logger.ErrorContext(ctx, "failed to clear session",
			logger.Component("web"),
			logger.Error(err))
	}
	a.setFlash(ctx, flashError, msgSessionEnded)
	return response.RedirectSeeOther(pathLogin)
}

// failAndReturn shows err as a flash message on the page at back. Rejected
// sessions are logged out instead.
func (a *App) failAndReturn(ctx *Context, err error, back string) handler.Response {
	if backend.IsAuth(err) {
		return a.signOut(ctx, err)
	}
	a.setFlash(ctx, flashError, userMessage(err))
	return response.RedirectSeeOther(back)
}

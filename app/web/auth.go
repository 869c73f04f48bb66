package web

import (
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/validator"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
)

const (
	tabLogin    = "login"
	tabRegister = "register"
)

type loginData struct {
	Tab      string
	Login    loginForm
	Register registerForm
}

func (a *App) loginPage(ctx *Context) handler.Response {
	tab := ctx.Request().URL.Query().Get("tab")
	if tab != tabRegister {
		tab = tabLogin
	}
	p := a.page(ctx, "Sign in")
	p.Data = loginData{Tab: tab}
	return response.Template(a.views.login, "layout", p)
}

func (a *App) renderLogin(ctx *Context, data loginData, err error, status int) handler.Response {
	p := a.page(ctx, "Sign in")
	switch {
	case validator.IsValidationError(err):
		p.Fields, p.Error = fieldErrors(err)
	case backend.Message(err) != "":
		p.Error = backend.Message(err)
	case err != nil:
		p.Error = userMessage(err)
	}
	data.Login.Password = ""
	data.Register.Password = ""
	p.Data = data
	return response.TemplateWithStatus(a.views.login, "layout", p, status)
}

func (a *App) login(ctx *Context) handler.Response {
	var form loginForm
	if err := bindForm(ctx, &form); err != nil {
		return a.renderLogin(ctx, loginData{Tab: tabLogin, Login: form}, err, http.StatusUnprocessableEntity)
	}

	res, err := a.backend.Login(ctx, backend.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		a.logger.InfoContext(ctx, "login failed",
			logger.Component("auth"),
			logger.Action("login"),
			logger.Error(err))
		return a.renderLogin(ctx, loginData{Tab: tabLogin, Login: form}, err, loginFailureStatus(err))
	}

	if _, err := a.transport.Login(ctx, res.Token, res.User); err != nil {
		a.logger.ErrorContext(ctx, "failed to store session",
			logger.Component("auth"),
			logger.Action("login"),
			logger.Error(err))
		return a.renderLogin(ctx, loginData{Tab: tabLogin, Login: form}, backend.ErrInvalidResponse, http.StatusBadGateway)
	}

	a.logger.InfoContext(ctx, "user logged in",
		logger.Component("auth"),
		logger.Action("login"),
		logger.UserID(res.User.ID.String()))
	return response.RedirectSeeOther(pathHome)
}

func (a *App) register(ctx *Context) handler.Response {
	var form registerForm
	if err := bindForm(ctx, &form); err != nil {
		return a.renderLogin(ctx, loginData{Tab: tabRegister, Register: form}, err, http.StatusUnprocessableEntity)
	}

	err := a.backend.Register(ctx, backend.Registration{Name: form.Name, Email: form.Email, Password: form.Password})
	if err != nil {
		return a.renderLogin(ctx, loginData{Tab: tabRegister, Register: form}, err, loginFailureStatus(err))
	}

	a.setFlash(ctx, flashSuccess, "Registration successful. You can now log in.")
	return response.RedirectSeeOther(pathLogin + "?tab=" + tabLogin)
}

func (a *App) logout(ctx *Context) handler.Response {
	if err := a.transport.Logout(ctx); err != nil {
		a.logger.ErrorContext(ctx, "failed to clear session",
			logger.Component("auth"),
			logger.Action("logout"),
			logger.Error(err))
	}
	return response.RedirectSeeOther(pathLogin)
}

// loginFailureStatus keeps the backend's 4xx status for rejected credentials.
func loginFailureStatus(err error) int {
	switch {
	case backend.IsConnectivity(err):
		return http.StatusServiceUnavailable
	case backend.IsAuth(err):
		return http.StatusUnauthorized
	}
	if code := response.AsHTTPError(err).Status; code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}

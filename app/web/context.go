package web

import (
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/router"
	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/middleware"
)

// Context is the request context of the web app.
type Context struct {
	*router.Context
}

func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{Context: router.NewContext(w, r, params)}
}

// Session returns the session loaded by the session middleware.
func (c *Context) Session() session.Session {
	return middleware.GetSession(c)
}

package router

import (
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/handler"
)

// Router is the routing interface used by the application.
// Middleware registered with Use applies to routes registered after the call.
type Router[C handler.Context] interface {
	http.Handler

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]
	Group(fn func(r Router[C])) Router[C]

	NotFound(h handler.HandlerFunc[C])
	Routes() []Route
}

// Route describes a registered route.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router backed by gorilla/mux.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}

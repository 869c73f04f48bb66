package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"sync"

	gmux "github.com/gorilla/mux"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
)

// mux is the private implementation of Router on top of gorilla/mux.
// Derived routers (With, Group) share the gorilla router and the route table.
type mux[C handler.Context] struct {
	root         *gmux.Router
	shared       *routeTable
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
}

type routeTable struct {
	mu     sync.Mutex
	routes []Route
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		root:         gmux.NewRouter(),
		shared:       &routeTable{},
		errorHandler: defaultErrorHandler[C],
		logger:       logger.Discard(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			// Only the default *Context type works without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	m.root.MethodNotAllowedHandler = m.serve(func(C) handler.Response {
		return func(http.ResponseWriter, *http.Request) error { return ErrMethodNotAllowed }
	})
	m.root.NotFoundHandler = m.serve(func(C) handler.Response {
		return func(http.ResponseWriter, *http.Request) error { return ErrNotFound }
	})

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.root.ServeHTTP(w, r)
}

func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodGet)
}

func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodPost)
}

func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodPut)
}

func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.Method(pattern, h, http.MethodDelete)
}

// Method registers h for the given methods. A route without methods matches any method.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methods ...string) {
	if h == nil {
		panic(ErrNilHandler)
	}

	route := m.root.Handle(pattern, m.serve(handler.Chain(h, m.middlewares...)))
	if len(methods) > 0 {
		route.Methods(methods...)
	}

	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	if len(methods) == 0 {
		m.shared.routes = append(m.shared.routes, Route{Method: "*", Pattern: pattern})
		return
	}
	for _, method := range methods {
		m.shared.routes = append(m.shared.routes, Route{Method: method, Pattern: pattern})
	}
}

func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	m.middlewares = append(m.middlewares, middlewares...)
}

func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	child := *m
	child.middlewares = append(slices.Clone(m.middlewares), middlewares...)
	return &child
}

func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	child := m.With()
	if fn != nil {
		fn(child)
	}
	return child
}

func (m *mux[C]) NotFound(h handler.HandlerFunc[C]) {
	m.root.NotFoundHandler = m.serve(handler.Chain(h, m.middlewares...))
}

func (m *mux[C]) Routes() []Route {
	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	return slices.Clone(m.shared.routes)
}

// serve adapts a HandlerFunc to http.Handler: it builds the context, executes the
// returned Response and routes errors and panics to the error handler.
func (m *mux[C]) serve(h handler.HandlerFunc[C]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := newResponseWriter(w)
		ctx := m.newContext(ww, r, gmux.Vars(r))

		defer func() {
			if p := recover(); p != nil {
				panicErr := &panicError{value: p, stack: debug.Stack()}
				if ww.Written() {
					m.logger.Error("panic after response written",
						"value", panicErr.value,
						"stack", string(panicErr.stack),
						"path", r.URL.Path,
						"method", r.Method,
						"status", ww.Status(),
					)
					return
				}
				m.errorHandler(ctx, panicErr)
			}
		}()

		resp := h(ctx)
		if resp == nil {
			m.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp(ww, ctx.Request()); err != nil {
			m.errorHandler(ctx, err)
		}
	})
}

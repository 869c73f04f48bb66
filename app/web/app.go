package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/crowdpredictor/trafficmap/core/config"
	"github.com/crowdpredictor/trafficmap/core/cookie"
	"github.com/crowdpredictor/trafficmap/core/health"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/router"
	"github.com/crowdpredictor/trafficmap/core/server"
	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/core/sessiontransport"
	"github.com/crowdpredictor/trafficmap/integration/database/redis"
	"github.com/crowdpredictor/trafficmap/middleware"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/directions"
	"github.com/crowdpredictor/trafficmap/pkg/ratelimiter"
	"github.com/crowdpredictor/trafficmap/pkg/search"
	"github.com/crowdpredictor/trafficmap/pkg/traffic"
)

// Backend is the part of the prediction backend the web app talks to.
// *backend.Client implements it.
type Backend interface {
	Login(ctx context.Context, creds backend.Credentials) (backend.LoginResult, error)
	Register(ctx context.Context, reg backend.Registration) error
	Predict(ctx context.Context, sess session.Session, req backend.PredictRequest) (backend.Prediction, error)
	ListHistory(ctx context.Context, sess session.Session) ([]backend.SearchHistoryEntry, error)
	AddHistory(ctx context.Context, sess session.Session, entry backend.NewHistoryEntry) error
	ListFavorites(ctx context.Context, sess session.Session) ([]backend.FavoriteRoute, error)
	AddFavorite(ctx context.Context, sess session.Session, fav backend.NewFavorite) error
	DeleteFavorite(ctx context.Context, sess session.Session, id backend.ID) error
	Health(ctx context.Context) (backend.Health, error)
}

// defaultStaticRoute is drawn when no mapping key is configured.
var defaultStaticRoute = directions.Static{
	From: directions.LatLng{Lat: 41.0082, Lng: 28.9784},
	To:   directions.LatLng{Lat: 41.0422, Lng: 29.0083},
}

// App is the CrowdPredictor web client.
type App struct {
	config    *Config
	logger    *slog.Logger
	router    router.Router[*Context]
	server    *server.Server
	cookies   *cookie.Manager
	sessions  *session.Manager
	store     session.Store
	transport *sessiontransport.Cookie
	redis     goredis.UniversalClient
	backend   Backend
	resolver  directions.Resolver
	searcher  *search.Orchestrator
	limiter   *ratelimiter.Bucket
	format    *traffic.Formatter
	views     *views
	clock     func() time.Time
}

// AppOption configures the App.
type AppOption func(*App)

// WithConfig uses cfg instead of loading the configuration from the environment.
func WithConfig(cfg Config) AppOption {
	return func(a *App) {
		a.config = &cfg
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithBackend replaces the prediction backend client.
func WithBackend(b Backend) AppOption {
	return func(a *App) {
		a.backend = b
	}
}

// WithResolver replaces the route resolver.
func WithResolver(r directions.Resolver) AppOption {
	return func(a *App) {
		a.resolver = r
	}
}

// WithSessionStore replaces the session store selected by SESSION_STORE.
func WithSessionStore(s session.Store) AppOption {
	return func(a *App) {
		a.store = s
	}
}

// WithRedis uses an existing redis client for sessions and readiness.
func WithRedis(client goredis.UniversalClient) AppOption {
	return func(a *App) {
		a.redis = client
	}
}

// WithClock overrides the time source used for searches without a datetime.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.clock = now
		}
	}
}

// NewApp wires the application. Configuration is read from the environment
// unless WithConfig is given.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	app := &App{clock: time.Now}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		var cfg Config
		if err := config.Load(&cfg); err != nil {
			return nil, fmt.Errorf("web: load config: %w", err)
		}
		app.config = &cfg
	}
	cfg := app.config
	if cfg.Server == (server.Config{}) {
		cfg.Server = server.DefaultConfig()
	}

	if app.logger == nil {
		app.logger = logger.NewFromEnv(cfg.AppName, cfg.Env, cfg.LogLevel,
			logger.WithContextExtractors(middleware.RequestIDExtractor))
	}
	log := app.logger

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return nil, fmt.Errorf("web: cookies: %w", err)
	}
	app.cookies = cookies

	if app.store == nil {
		if cfg.Session.Store == session.StoreRedis && app.redis == nil {
			client, err := redis.Connect(ctx, cfg.Redis)
			if err != nil {
				log.WarnContext(ctx, "redis unavailable",
					logger.Component("session"),
					logger.Error(err))
			} else {
				app.redis = client
			}
		}
		app.store = session.NewStoreFromConfig(cfg.Session, app.redis, log)
	}
	app.sessions = session.NewManagerFromConfig(cfg.Session, app.store, session.WithLogger(log))
	app.transport = sessiontransport.NewCookieFromConfig(cfg.SessionCookie, app.sessions, app.cookies,
		sessiontransport.WithLogger(log))

	if app.backend == nil {
		client, err := backend.NewFromConfig(cfg.Backend, backend.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("web: backend: %w", err)
		}
		app.backend = client
	}

	if app.resolver == nil {
		if cfg.Directions.APIKey == "" {
			log.WarnContext(ctx, "no mapping api key configured, routes are drawn as straight lines",
				logger.Component("directions"))
			app.resolver = defaultStaticRoute
		} else {
			resolver, err := directions.NewFromConfig(cfg.Directions, directions.WithLogger(log))
			if err != nil {
				return nil, fmt.Errorf("web: directions: %w", err)
			}
			app.resolver = resolver
		}
	}

	app.searcher = search.New(app.resolver, app.backend, app.backend,
		search.WithClock(app.clock),
		search.WithLogger(log))

	if cfg.LoginRate.Enabled() {
		app.limiter, err = ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg.LoginRate)
		if err != nil {
			return nil, fmt.Errorf("web: login rate limit: %w", err)
		}
	}

	app.format = traffic.NewFormatter(cfg.DisplayLocale, nil)

	app.views, err = newViews(app.funcs())
	if err != nil {
		return nil, fmt.Errorf("web: templates: %w", err)
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("web: server: %w", err)
	}
	app.server = srv

	app.router = router.New(
		router.WithContextFactory[*Context](newContext),
		router.WithErrorHandler[*Context](app.handleError),
		router.WithLogger[*Context](log),
	)
	app.routes()

	return app, nil
}

// Handler returns the application's HTTP handler.
func (a *App) Handler() http.Handler { return a.router }

// Run serves the app until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	a.logger.InfoContext(ctx, "starting web app",
		logger.Component("app"),
		slog.String("addr", a.config.Server.Addr),
		slog.String("backend", a.config.Backend.BaseURL))

	return a.server.Run(ctx, a.Handler())()
}

func (a *App) close() {
	if a.redis == nil {
		return
	}
	if err := a.redis.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		a.logger.Error("failed to close redis", logger.Component("app"), logger.Error(err))
	}
}

// checks are the dependencies reported by the readiness endpoint.
func (a *App) checks() []health.Check {
	checks := []health.Check{{
		Name: "backend",
		Fn: func(ctx context.Context) error {
			h, err := a.backend.Health(ctx)
			if err != nil {
				return err
			}
			if !h.Healthy() {
				return fmt.Errorf("backend status %q", h.Status)
			}
			return nil
		},
	}}
	if a.redis != nil {
		checks = append(checks, health.Check{Name: "redis", Fn: redis.Healthcheck(a.redis)})
	}
	return checks
}

// handleError renders JSON for API and health routes and an error page otherwise.
func (a *App) handleError(ctx *Context, err error) {
	if response.WantsJSON(ctx.Request()) {
		response.JSONErrorHandler(ctx, err)
		return
	}
	httpErr := response.AsHTTPError(err)
	if httpErr.Status >= http.StatusInternalServerError {
		a.logger.ErrorContext(ctx, "request failed",
			logger.Component("http"),
			logger.Error(err))
	}
	page := a.page(ctx, "Error")
	page.Error = httpErr.Message
	response.Render(ctx, response.TemplateWithStatus(a.views.error, "layout", page, httpErr.Status))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/crowdpredictor/trafficmap/core/config"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/directions"
	"github.com/crowdpredictor/trafficmap/pkg/search"
	"github.com/crowdpredictor/trafficmap/pkg/traffic"
)

// DefaultProfile is the session id used when --profile is not given.
const DefaultProfile = "default"

var (
	// ErrNotLoggedIn is returned by commands that need a session when there is none.
	ErrNotLoggedIn = errors.New("not logged in, run `trafficctl login` first")
	// ErrSessionExpired is returned when the backend rejected the stored token.
	// The stored session has already been removed.
	ErrSessionExpired = errors.New("session expired, run `trafficctl login` again")
	// ErrNotFound is returned for ids that are not in the fetched list.
	ErrNotFound = errors.New("no entry with that id")
)

// Backend is the part of the prediction backend the CLI uses.
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
	ModelInfo(ctx context.Context) (backend.ModelInfo, error)
}

// App holds the CLI dependencies shared by all commands.
type App struct {
	config   *Config
	logger   *slog.Logger
	store    session.Store
	sessions *session.Manager
	backend  Backend
	resolver directions.Resolver
	searcher *search.Orchestrator
	format   *traffic.Formatter
	clock    func() time.Time
	profile  string
	json     bool
}

// Option configures the App.
type Option func(*App)

// WithConfig uses cfg instead of the environment.
func WithConfig(cfg Config) Option {
	return func(a *App) { a.config = &cfg }
}

// WithLogger sets the logger. Logs go to stderr by default.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithBackend replaces the backend client.
func WithBackend(b Backend) Option {
	return func(a *App) { a.backend = b }
}

// WithResolver replaces the route resolver.
func WithResolver(r directions.Resolver) Option {
	return func(a *App) { a.resolver = r }
}

// WithSessionStore replaces the profile file store.
func WithSessionStore(s session.Store) Option {
	return func(a *App) { a.store = s }
}

// WithClock overrides the time used for searches without --at.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.clock = now
		}
	}
}

// New wires the CLI.
func New(opts ...Option) (*App, error) {
	app := &App{clock: time.Now, profile: DefaultProfile}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		var cfg Config
		if err := config.Load(&cfg); err != nil {
			return nil, fmt.Errorf("cli: load config: %w", err)
		}
		app.config = &cfg
	}
	cfg := app.config

	if app.logger == nil {
		app.logger = logger.New(
			logger.WithOutput(os.Stderr),
			logger.WithTextFormatter(),
			logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		)
	}

	if app.store == nil {
		path := cfg.ProfilePath
		if path == "" {
			p, err := session.DefaultProfilePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		app.store = session.NewFileStore(path)
	}
	app.sessions = session.NewManagerFromConfig(cfg.Session, app.store, session.WithLogger(app.logger))

	if app.backend == nil {
		client, err := backend.NewFromConfig(cfg.Backend, backend.WithLogger(app.logger))
		if err != nil {
			return nil, fmt.Errorf("cli: backend: %w", err)
		}
		app.backend = client
	}

	if app.resolver == nil {
		if cfg.Directions.APIKey == "" {
			app.resolver = directions.Static{}
		} else {
			r, err := directions.NewFromConfig(cfg.Directions, directions.WithLogger(app.logger))
			if err != nil {
				return nil, fmt.Errorf("cli: directions: %w", err)
			}
			app.resolver = r
		}
	}

	app.searcher = search.New(app.resolver, app.backend, app.backend,
		search.WithClock(app.clock),
		search.WithLogger(app.logger))
	app.format = traffic.NewFormatter(cfg.DisplayLocale, nil)

	return app, nil
}

// session restores the session of the active profile.
func (a *App) session(ctx context.Context) (session.Session, error) {
	return a.sessions.Restore(ctx, a.profile)
}

// authenticated is session for commands that need a logged in user.
func (a *App) authenticated(ctx context.Context) (session.Session, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return sess, err
	}
	if !sess.IsAuthenticated() {
		return sess, ErrNotLoggedIn
	}
	return sess, nil
}

// check turns backend auth failures into ErrSessionExpired after dropping the
// stored session. Other errors pass through.
func (a *App) check(ctx context.Context, err error) error {
	if err == nil || !backend.IsAuth(err) {
		return err
	}
	if lerr := a.sessions.Logout(ctx, a.profile); lerr != nil {
		a.logger.ErrorContext(ctx, "failed to clear session",
			logger.Component("cli"),
			logger.Error(lerr))
	}
	return ErrSessionExpired
}

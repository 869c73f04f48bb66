package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/session"
)

// Config holds the backend connection settings.
type Config struct {
	BaseURL string `env:"BACKEND_URL" envDefault:"http://localhost:5050"`
}

// Client talks to the prediction backend. It never retries and sets no
// timeout of its own; cancellation comes from the caller's context.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New creates a backend client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: invalid base url %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig creates a client from configuration.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg.BaseURL, opts...)
}

// auth selects how a request uses the session.
type auth int

const (
	authNone     auth = iota // never send a token
	authOptional             // send the token when there is one
	authRequired             // refuse anonymous sessions without a network call
)

type call struct {
	method string
	path   string
	body   any
	sess   session.Session
	auth   auth
	out    any
}

// do runs one request. Non-2xx responses become *Error, transport failures
// ErrConnectivity and undecodable 2xx bodies ErrInvalidResponse.
func (c *Client) do(ctx context.Context, cl call) error {
	if cl.auth == authRequired && !cl.sess.IsAuthenticated() {
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, ErrUnauthenticated)
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("backend: encode %s body: %w", cl.path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL.JoinPath(cl.path).String(), body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.auth != authNone && cl.sess.IsAuthenticated() {
		req.Header.Set("Authorization", "Bearer "+cl.sess.Token())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed",
			logger.Component("backend"),
			logger.Method(cl.method),
			logger.Path(cl.path),
			logger.Elapsed(start),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrConnectivity, err)
	}

	c.logger.DebugContext(ctx, "backend request",
		logger.Component("backend"),
		logger.Method(cl.method),
		logger.Path(cl.path),
		logger.StatusCode(resp.StatusCode),
		logger.Elapsed(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if cl.out == nil || len(bytes.TrimSpace(data)) == 0 {
		if cl.out != nil {
			return fmt.Errorf("%w: empty body", ErrInvalidResponse)
		}
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}

// errorMessage extracts the backend's "error" or "message" field.
func errorMessage(data []byte) string {
	var payload struct {
		Error   any `json:"error"`
		Message any `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallbackMessage
	}
	for _, v := range []any{payload.Error, payload.Message} {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return fallbackMessage
}

// Login exchanges credentials for a token and the user profile.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, call{method: http.MethodPost, path: "/login", body: creds, out: &out})
	if err != nil {
		return LoginResult{}, err
	}
	if out.Token == "" || out.User.ID.IsZero() {
		return LoginResult{}, fmt.Errorf("%w: login response without token or user", ErrInvalidResponse)
	}
	return out, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/register", body: reg})
}

// Predict asks for a traffic prediction. The token is attached when the
// session has one but is not required.
func (c *Client) Predict(ctx context.Context, sess session.Session, req PredictRequest) (Prediction, error) {
	var out Prediction
	err := c.do(ctx, call{method: http.MethodPost, path: "/predict", body: req, sess: sess, auth: authOptional, out: &out})
	return out, err
}

// ListHistory returns the user's past searches.
func (c *Client) ListHistory(ctx context.Context, sess session.Session) ([]SearchHistoryEntry, error) {
	var out struct {
		SearchHistory []SearchHistoryEntry `json:"search_history"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/search-history", sess: sess, auth: authRequired, out: &out}); err != nil {
		return nil, err
	}
	if out.SearchHistory == nil {
		return []SearchHistoryEntry{}, nil
	}
	return out.SearchHistory, nil
}

// AddHistory records a search with its prediction.
func (c *Client) AddHistory(ctx context.Context, sess session.Session, entry NewHistoryEntry) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/search-history", body: entry, sess: sess, auth: authRequired})
}

// ListFavorites returns the user's saved routes.
func (c *Client) ListFavorites(ctx context.Context, sess session.Session) ([]FavoriteRoute, error) {
	var out struct {
		Favorites []FavoriteRoute `json:"favorites"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/favorites", sess: sess, auth: authRequired, out: &out}); err != nil {
		return nil, err
	}
	if out.Favorites == nil {
		return []FavoriteRoute{}, nil
	}
	return out.Favorites, nil
}

// AddFavorite saves a route.
func (c *Client) AddFavorite(ctx context.Context, sess session.Session, fav NewFavorite) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/favorites", body: fav, sess: sess, auth: authRequired})
}

// DeleteFavorite removes a saved route.
func (c *Client) DeleteFavorite(ctx context.Context, sess session.Session, id ID) error {
	if id.IsZero() {
		return errors.New("backend: empty favorite id")
	}
	return c.do(ctx, call{method: http.MethodDelete, path: "/favorites/" + id.String(), sess: sess, auth: authRequired})
}

// Health reads the backend health report.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, call{method: http.MethodGet, path: "/health", out: &out})
	return out, err
}

// ModelInfo describes the prediction model and its levels.
func (c *Client) ModelInfo(ctx context.Context) (ModelInfo, error) {
	var out ModelInfo
	err := c.do(ctx, call{method: http.MethodGet, path: "/model-info", out: &out})
	return out, err
}

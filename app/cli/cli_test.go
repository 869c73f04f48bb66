package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crowdpredictor/trafficmap/app/cli"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/directions"
)

type mockBackend struct{ mock.Mock }

func (m *mockBackend) Login(ctx context.Context, creds backend.Credentials) (backend.LoginResult, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(backend.LoginResult), args.Error(1)
}

func (m *mockBackend) Register(ctx context.Context, reg backend.Registration) error {
	return m.Called(ctx, reg).Error(0)
}

func (m *mockBackend) Predict(ctx context.Context, sess session.Session, req backend.PredictRequest) (backend.Prediction, error) {
	args := m.Called(ctx, sess, req)
	return args.Get(0).(backend.Prediction), args.Error(1)
}

func (m *mockBackend) ListHistory(ctx context.Context, sess session.Session) ([]backend.SearchHistoryEntry, error) {
	args := m.Called(ctx, sess)
	entries, _ := args.Get(0).([]backend.SearchHistoryEntry)
	return entries, args.Error(1)
}

func (m *mockBackend) AddHistory(ctx context.Context, sess session.Session, entry backend.NewHistoryEntry) error {
	return m.Called(ctx, sess, entry).Error(0)
}

func (m *mockBackend) ListFavorites(ctx context.Context, sess session.Session) ([]backend.FavoriteRoute, error) {
	args := m.Called(ctx, sess)
	favs, _ := args.Get(0).([]backend.FavoriteRoute)
	return favs, args.Error(1)
}

func (m *mockBackend) AddFavorite(ctx context.Context, sess session.Session, fav backend.NewFavorite) error {
	return m.Called(ctx, sess, fav).Error(0)
}

func (m *mockBackend) DeleteFavorite(ctx context.Context, sess session.Session, id backend.ID) error {
	return m.Called(ctx, sess, id).Error(0)
}

func (m *mockBackend) Health(ctx context.Context) (backend.Health, error) {
	args := m.Called(ctx)
	return args.Get(0).(backend.Health), args.Error(1)
}

func (m *mockBackend) ModelInfo(ctx context.Context) (backend.ModelInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(backend.ModelInfo), args.Error(1)
}

var (
	now     = time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)
	ada     = session.User{ID: "7", Name: "Ada Lovelace", Email: "ada@example.com"}
	anyCtx  = mock.Anything
	anySess = mock.AnythingOfType("session.Session")
)

type fixture struct {
	backend *mockBackend
	store   *session.FileStore
	app     *cli.App
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	be := &mockBackend{}
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	app, err := cli.New(
		cli.WithConfig(cli.Config{DisplayLocale: "en"}),
		cli.WithLogger(logger.Discard()),
		cli.WithBackend(be),
		cli.WithResolver(directions.Static{}),
		cli.WithSessionStore(store),
		cli.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	return fixture{backend: be, store: store, app: app}
}

func (f fixture) run(stdin string, args ...string) (string, error) {
	cmd := f.app.Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (f fixture) login(t *testing.T) {
	t.Helper()
	f.backend.On("Login", anyCtx, backend.Credentials{Email: "ada@example.com", Password: "secret"}).
		Return(backend.LoginResult{Token: "tok", User: ada}, nil).Once()
	_, err := f.run("", "login", "-e", " Ada@Example.com ", "-p", "secret")
	require.NoError(t, err)
}

func moderate() backend.Prediction {
	var p backend.Prediction
	_ = json.Unmarshal([]byte(`{"traffic_level":1,"traffic_info":{"description":"Moderate traffic"}}`), &p)
	return p
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.run("", "whoami")
	assert.ErrorIs(t, err, cli.ErrNotLoggedIn)

	f.login(t)

	rec, err := f.store.Load(context.Background(), cli.DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "tok", rec.Token)

	out, err := f.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace <ada@example.com>")

	out, err = f.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, err = f.store.Load(context.Background(), cli.DefaultProfile)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.backend.On("Login", anyCtx, backend.Credentials{Email: "ada@example.com", Password: "from-stdin"}).
		Return(backend.LoginResult{Token: "tok", User: ada}, nil).Once()

	out, err := f.run("from-stdin\n", "login", "-e", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Ada Lovelace")
	f.backend.AssertExpectations(t)
}

func TestLogin_Rejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.backend.On("Login", anyCtx, mock.Anything).
		Return(backend.LoginResult{}, &backend.Error{Status: 401, Message: "Invalid email or password"}).Once()

	_, err := f.run("", "login", "-e", "ada@example.com", "-p", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")

	_, err = f.store.Load(context.Background(), cli.DefaultProfile)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	t.Run("requires a session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.run("", "search", "Kadıköy", "Beşiktaş")
		assert.ErrorIs(t, err, cli.ErrNotLoggedIn)
		f.backend.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("prints the prediction and records it", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)

		at := time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local)
		f.backend.On("Predict", anyCtx, anySess, backend.PredictRequest{Origin: "Kadıköy", Destination: "Beşiktaş", Datetime: at}).
			Return(moderate(), nil).Once()
		f.backend.On("AddHistory", anyCtx, anySess, mock.AnythingOfType("backend.NewHistoryEntry")).Return(nil).Once()

		out, err := f.run("", "search", "Kadıköy", "Beşiktaş", "--at", "2026-10-17T09:00")
		require.NoError(t, err)
		assert.Contains(t, out, "Kadıköy - Beşiktaş")
		assert.Contains(t, out, "Moderate (yellow), Moderate traffic")
		f.backend.AssertExpectations(t)
	})

	t.Run("history failure does not fail the search", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)
		f.backend.On("Predict", anyCtx, anySess, mock.Anything).Return(moderate(), nil).Once()
		f.backend.On("AddHistory", anyCtx, anySess, mock.Anything).Return(&backend.Error{Status: 500, Message: "db down"}).Once()

		out, err := f.run("", "search", "A", "B", "--json")
		require.NoError(t, err)

		var v struct {
			Label        string `json:"label"`
			HistorySaved bool   `json:"history_saved"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &v))
		assert.Equal(t, "Moderate", v.Label)
		assert.False(t, v.HistorySaved)
	})

	t.Run("invalid time is rejected before any call", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, err := f.run("", "search", "A", "B", "--at", "tomorrow")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --at")
	})
}

func TestHistory(t *testing.T) {
	t.Parallel()

	t.Run("lists entries", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)
		pred := moderate()
		f.backend.On("ListHistory", anyCtx, anySess).Return([]backend.SearchHistoryEntry{
			{ID: "3", Origin: "Kadıköy", Destination: "Beşiktaş", Datetime: "2026-10-17T08:30:00", PredictionResult: &pred},
			{ID: "2", Origin: "Üsküdar", Destination: "Şişli", Datetime: "2026-10-16T18:00:00"},
		}, nil).Once()

		out, err := f.run("", "history", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "ROUTE")
		assert.Contains(t, out, "Kadıköy - Beşiktaş")
		assert.Contains(t, out, "Moderate: Moderate traffic")
		assert.Contains(t, out, "Üsküdar - Şişli")
	})

	t.Run("expired token clears the session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)
		f.backend.On("ListHistory", anyCtx, anySess).Return(nil, &backend.Error{Status: 401, Message: "Token expired"}).Once()

		_, err := f.run("", "history", "list")
		assert.ErrorIs(t, err, cli.ErrSessionExpired)

		_, err = f.store.Load(context.Background(), cli.DefaultProfile)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("favorite links the entry", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)
		entry := backend.SearchHistoryEntry{ID: "3", Origin: "Kadıköy", Destination: "Beşiktaş"}
		f.backend.On("ListHistory", anyCtx, anySess).Return([]backend.SearchHistoryEntry{entry}, nil).Once()
		f.backend.On("AddFavorite", anyCtx, anySess, backend.FavoriteFromHistory(entry)).Return(nil).Once()

		out, err := f.run("", "history", "favorite", "3")
		require.NoError(t, err)
		assert.Contains(t, out, "Added Kadıköy - Beşiktaş to favorites.")
		f.backend.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)
		f.backend.On("ListHistory", anyCtx, anySess).Return([]backend.SearchHistoryEntry{}, nil).Once()

		_, err := f.run("", "history", "repeat", "42")
		assert.ErrorIs(t, err, cli.ErrNotFound)
	})
}

func TestFavorites(t *testing.T) {
	t.Parallel()

	t.Run("add validates before calling the backend", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)

		_, err := f.run("", "favorites", "add", "Kadıköy", "  ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "destination is required")
		f.backend.AssertNotCalled(t, "AddFavorite", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("add saves a manual route", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)
		f.backend.On("AddFavorite", anyCtx, anySess, backend.ManualFavorite("Kadıköy", "Beşiktaş")).Return(nil).Once()
		f.backend.On("ListFavorites", anyCtx, anySess).Return([]backend.FavoriteRoute{}, nil).Once()

		out, err := f.run("", "favorites", "add", " Kadıköy", "Beşiktaş ")
		require.NoError(t, err)
		assert.Contains(t, out, "Added Kadıköy - Beşiktaş to favorites.")
		f.backend.AssertExpectations(t)
	})

	t.Run("remove failure is reported", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)
		f.backend.On("DeleteFavorite", anyCtx, anySess, backend.ID("5")).
			Return(&backend.Error{Status: 404, Message: "Favorite not found"}).Once()

		_, err := f.run("", "favorites", "rm", "5")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Favorite not found")
	})

	t.Run("check predicts without recording", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.login(t)
		f.backend.On("ListFavorites", anyCtx, anySess).Return([]backend.FavoriteRoute{
			{ID: "5", Origin: "Kadıköy", Destination: "Beşiktaş"},
		}, nil).Once()
		f.backend.On("Predict", anyCtx, anySess, backend.PredictRequest{Origin: "Kadıköy", Destination: "Beşiktaş", Datetime: now}).
			Return(moderate(), nil).Once()

		out, err := f.run("", "favorites", "check", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "Moderate traffic")
		f.backend.AssertNotCalled(t, "AddHistory", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.backend.On("Health", anyCtx).Return(backend.Health{Status: "unhealthy"}, nil).Once()
	f.backend.On("ModelInfo", anyCtx).Return(backend.ModelInfo{ModelType: "RandomForest", FeatureCount: 12}, nil).Once()

	out, err := f.run("", "health")
	require.Error(t, err)
	assert.Contains(t, out, "status: unhealthy")
	assert.Contains(t, out, "RandomForest (12 features)")
}

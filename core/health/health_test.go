package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdpredictor/trafficmap/core/health"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/router"
)

func serve(t *testing.T, r router.Router[*router.Context], path string) (*httptest.ResponseRecorder, health.Report) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var report health.Report
	if rec.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	}
	return rec, report
}

func ok(context.Context) error { return nil }

func TestLiveness(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/health/live", health.Liveness[*router.Context])
	r.Get("/ping", health.NoContent[*router.Context])

	rec, report := serve(t, r, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, health.StatusAlive, report.Status)

	rec, _ = serve(t, r, "/ping")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()
		r := router.New[*router.Context]()
		r.Get("/ready", health.Readiness[*router.Context](logger.Discard(),
			health.Check{Name: "backend", Fn: ok},
			health.Check{Name: "redis", Fn: ok},
		))

		rec, report := serve(t, r, "/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, health.StatusReady, report.Status)
		assert.Equal(t, map[string]string{"backend": "ok", "redis": "ok"}, report.Checks)
	})

	t.Run("one check fails", func(t *testing.T) {
		t.Parallel()
		r := router.New[*router.Context]()
		r.Get("/ready", health.Readiness[*router.Context](logger.Discard(),
			health.Check{Name: "backend", Fn: func(context.Context) error { return errors.New("connection refused") }},
			health.Check{Name: "redis", Fn: ok},
		))

		rec, report := serve(t, r, "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, health.StatusUnavailable, report.Status)
		assert.Equal(t, "connection refused", report.Checks["backend"])
		assert.Equal(t, "ok", report.Checks["redis"])
	})

	t.Run("no checks is ready", func(t *testing.T) {
		t.Parallel()
		report := health.Probe(context.Background(), logger.Discard(), health.DefaultCheckTimeout)
		assert.Equal(t, health.StatusReady, report.Status)
	})
}

func TestProbe_TimeoutBoundsCheck(t *testing.T) {
	t.Parallel()

	slow := health.Check{Name: "slow", Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	report := health.Probe(context.Background(), logger.Discard(), 1, slow)
	assert.Equal(t, health.StatusUnavailable, report.Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), report.Checks["slow"])
}

package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/pkg/async"
)

const (
	StatusAlive       = "alive"
	StatusReady       = "ready"
	StatusUnavailable = "unavailable"
	checkOK           = "ok"
)

// DefaultCheckTimeout bounds every readiness check.
const DefaultCheckTimeout = 5 * time.Second

// Check is a named dependency probe.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Report is the JSON body of the health endpoints. Checks maps a check name to
// "ok" or its error message.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Readiness runs every check concurrently. It answers 200 when all pass and
// 503 otherwise; the body lists each result.
func Readiness[C handler.Context](log *slog.Logger, checks ...Check) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		report := Probe(ctx, log, DefaultCheckTimeout, checks...)
		if report.Status != StatusReady {
			return response.JSONWithStatus(report, http.StatusServiceUnavailable)
		}
		return response.JSON(report)
	}
}

// Probe runs checks with a per-check timeout and builds the report.
func Probe(ctx context.Context, log *slog.Logger, timeout time.Duration, checks ...Check) Report {
	futures := make([]*async.Future, len(checks))
	for i, c := range checks {
		futures[i] = async.Exec(ctx, c, func(ctx context.Context, c Check) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return c.Fn(ctx)
		})
	}

	report := Report{Status: StatusReady, Checks: make(map[string]string, len(checks))}
	for i, err := range async.Settle(futures...) {
		name := checks[i].Name
		if err != nil {
			report.Status = StatusUnavailable
			report.Checks[name] = err.Error()
			log.ErrorContext(ctx, "readiness check failed", logger.Component(name), logger.Error(err))
			continue
		}
		report.Checks[name] = checkOK
	}
	return report
}

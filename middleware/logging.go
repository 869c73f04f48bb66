package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/pkg/clientip"
)

// LoggingConfig configures LoggingWithConfig.
type LoggingConfig struct {
	Skip   func(ctx handler.Context) bool
	Logger *slog.Logger
	// SlowRequestThreshold promotes slow successful requests to warn. Default 5s.
	SlowRequestThreshold time.Duration
}

// Logging logs one record per request once the response is written.
// 5xx is logged at error, 4xx and slow requests at warn, the rest at info.
func Logging[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	log := cfg.Logger.With(logger.Component("http"))

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
				err := resp(rw, r)

				d := time.Since(start)
				attrs := []slog.Attr{
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.StatusCode(rw.status),
					logger.BytesOut(rw.size),
					logger.Duration(d),
					logger.RemoteAddr(clientip.GetIP(r)),
				}
				level := slog.LevelInfo
				switch {
				case err != nil:
					// The error handler writes the final status after us.
					level = slog.LevelWarn
					attrs = append(attrs, logger.Error(err))
				case rw.status >= http.StatusInternalServerError:
					level = slog.LevelError
				case rw.status >= http.StatusBadRequest:
					level = slog.LevelWarn
				case d > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}
				log.LogAttrs(r.Context(), level, "request completed", attrs...)
				return err
			}
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	size    int64
	written bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.written {
		rw.status = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

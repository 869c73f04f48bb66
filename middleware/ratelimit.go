package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/pkg/clientip"
	"github.com/crowdpredictor/trafficmap/pkg/ratelimiter"
)

// RateLimiter grants or refuses one request for a key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimiter.Result, error)
}

// RateLimit throttles requests per client IP. Refused requests get 429 with
// Retry-After. A limiter error lets the request through.
func RateLimit[C handler.Context](limiter RateLimiter, log *slog.Logger) handler.Middleware[C] {
	if limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			ip := clientip.GetIP(ctx.Request())
			res, err := limiter.Allow(ctx, ip)
			if err != nil {
				log.WarnContext(ctx, "rate limiter unavailable",
					logger.Component("ratelimit"), logger.RemoteAddr(ip), logger.Error(err))
				return next(ctx)
			}

			h := ctx.ResponseWriter().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				wait := res.RetryAfter(time.Now())
				h.Set("Retry-After", strconv.Itoa(int((wait+time.Second-1)/time.Second)))
				log.InfoContext(ctx, "rate limit exceeded",
					logger.Component("ratelimit"), logger.RemoteAddr(ip), logger.Path(ctx.Request().URL.Path))
				return response.Error(response.ErrTooManyRequests.WithMessage("Too many attempts. Please wait and try again."))
			}
			return next(ctx)
		}
	}
}

// Package ratelimiter implements token bucket rate limiting.
//
// A bucket holds up to Capacity tokens and gains RefillRate tokens every
// RefillInterval. Each request takes one token; an empty bucket rejects it
// until the next refill.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: 30 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	res, err := limiter.Allow(ctx, clientip.GetIP(r))
//	if err == nil && !res.Allowed() {
//		// reject, retry after res.RetryAfter(time.Now())
//	}
//
// The web app uses it to throttle login and registration attempts per client.
package ratelimiter

// Package clientip extracts the client IP address of an HTTP request.
//
// Proxy headers are checked in this order:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For, leftmost entry
//  4. X-Real-IP
//  5. RemoteAddr
//
// Invalid addresses and 0.0.0.0 are skipped. When nothing valid is found the
// raw RemoteAddr is returned.
//
//	key := clientip.GetIP(r)
//	res, err := limiter.Allow(ctx, key)
package clientip

package middleware

import (
	"maps"
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/handler"
)

// SecurityHeadersConfig lists the headers set on every response. Empty
// values are omitted.
type SecurityHeadersConfig struct {
	Skip func(ctx handler.Context) bool

	ContentTypeOptions      string
	FrameOptions            string
	StrictTransportSecurity string
	ContentSecurityPolicy   string
	ReferrerPolicy          string
	PermissionsPolicy       string
	CustomHeaders           map[string]string

	// IsDevelopment drops HSTS.
	IsDevelopment bool
}

// MapPageSecurity allows the Google Maps JavaScript widget and nothing else
// from third parties.
var MapPageSecurity = SecurityHeadersConfig{
	ContentTypeOptions:      "nosniff",
	FrameOptions:            "DENY",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	ContentSecurityPolicy: "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' https://maps.googleapis.com https://maps.gstatic.com; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
		"font-src 'self' https://fonts.gstatic.com; " +
		"img-src 'self' data: https://*.googleapis.com https://*.gstatic.com https://*.google.com; " +
		"connect-src 'self' https://maps.googleapis.com; " +
		"frame-ancestors 'none'; form-action 'self'",
	ReferrerPolicy:    "strict-origin-when-cross-origin",
	PermissionsPolicy: "camera=(), microphone=(), payment=()",
}

// SecurityHeaders applies MapPageSecurity.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](MapPageSecurity)
}

func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	for name, value := range map[string]string{
		"X-Content-Type-Options":    cfg.ContentTypeOptions,
		"X-Frame-Options":           cfg.FrameOptions,
		"Strict-Transport-Security": cfg.StrictTransportSecurity,
		"Content-Security-Policy":   cfg.ContentSecurityPolicy,
		"Referrer-Policy":           cfg.ReferrerPolicy,
		"Permissions-Policy":        cfg.PermissionsPolicy,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				for k, v := range headers {
					w.Header().Set(k, v)
				}
				return resp(w, r)
			}
		}
	}
}

package middleware

import (
	"fmt"
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/response"
)

const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// DefaultBodyLimit fits any form or JSON body the app accepts.
const DefaultBodyLimit = 64 * KB

// BodyLimit rejects requests whose declared length exceeds maxSize with 413
// and caps the body reader for the rest. A non-positive maxSize uses
// DefaultBodyLimit.
func BodyLimit[C handler.Context](maxSize int64) handler.Middleware[C] {
	if maxSize <= 0 {
		maxSize = DefaultBodyLimit
	}
	tooLarge := response.ErrRequestEntityTooLarge.
		WithMessage(fmt.Sprintf("request body too large, limit is %d bytes", maxSize))

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			req := ctx.Request()
			if req.ContentLength > maxSize {
				return response.Error(tooLarge)
			}
			if req.Body != nil {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, maxSize)
			}
			return next(ctx)
		}
	}
}

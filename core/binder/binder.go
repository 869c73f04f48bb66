package binder

import (
	"mime"
	"net/http"
)

// Binder decodes request data into v, which must be a pointer to a struct.
type Binder func(r *http.Request, v any) error

// Bind picks JSON for application/json requests and Form for everything else.
func Bind(r *http.Request, v any) error {
	if mediaType(r) == "application/json" {
		return JSON()(r, v)
	}
	return Form()(r, v)
}

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

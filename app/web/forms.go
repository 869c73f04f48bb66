package web

import (
	"errors"
	"time"

	"github.com/crowdpredictor/trafficmap/core/binder"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/sanitizer"
	"github.com/crowdpredictor/trafficmap/core/validator"
)

type loginForm struct {
	Email    string `form:"email" sanitize:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Name     string `form:"name" sanitize:"trim,single_line" validate:"required,max=100"`
	Email    string `form:"email" sanitize:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// searchForm leaves the blank-place check to the search orchestrator.
type searchForm struct {
	Origin      string    `form:"origin" sanitize:"place"`
	Destination string    `form:"destination" sanitize:"place"`
	Datetime    time.Time `form:"datetime"`
}

type favoriteForm struct {
	Origin      string `form:"origin" sanitize:"place" validate:"required,max=200"`
	Destination string `form:"destination" sanitize:"place" validate:"required,max=200"`
}

// apiSearchRequest is the JSON body of POST /api/search.
type apiSearchRequest struct {
	Origin      string `json:"origin" sanitize:"place" validate:"max=200"`
	Destination string `json:"destination" sanitize:"place" validate:"max=200"`
	Datetime    string `json:"datetime,omitempty"`
}

var apiDatetimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02T15:04:05"}

func (r apiSearchRequest) at() (time.Time, error) {
	if r.Datetime == "" {
		return time.Time{}, nil
	}
	for _, layout := range apiDatetimeLayouts {
		if t, err := time.ParseInLocation(layout, r.Datetime, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, response.ErrUnprocessableEntity.WithMessage("datetime must be an ISO 8601 timestamp")
}

// bindForm decodes, sanitizes and validates a request body into v.
// Validation failures are returned as validator.ValidationErrors.
func bindForm(ctx *Context, v any) error {
	if err := binder.Bind(ctx.Request(), v); err != nil {
		return err
	}
	if err := sanitizer.SanitizeStruct(v); err != nil {
		return err
	}
	return validator.ValidateStruct(v)
}

// fieldErrors splits err into per-field messages and a summary. Errors that
// are not validation errors yield a nil map.
func fieldErrors(err error) (map[string]string, string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Fields(), "Please correct the highlighted fields."
	}
	return nil, "The form could not be read."
}

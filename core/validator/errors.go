package validator

import (
	"errors"
	"net/http"
	"strings"
)

// ErrInvalidTarget is returned for anything but a pointer to a struct.
var ErrInvalidTarget = errors.New("validator: must pass a pointer to struct")

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Message }

// ValidationErrors collects every failed rule of a struct, in field order.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// StatusCode maps validation failures to 422.
func (e ValidationErrors) StatusCode() int { return http.StatusUnprocessableEntity }

// Fields returns the first message per field.
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Has reports whether field failed any rule.
func (e ValidationErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// IsValidationError reports whether err carries ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

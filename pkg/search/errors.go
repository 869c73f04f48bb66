package search

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when origin or destination is blank.
	ErrValidation = errors.New("search: origin and destination are required")
	// ErrRouteNotFound is returned when no route exists between the places.
	ErrRouteNotFound = errors.New("search: route not found")
)

// AbortError reports the stage a search stopped at and why.
type AbortError struct {
	Stage Stage
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("search aborted after %s: %v", e.Stage, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

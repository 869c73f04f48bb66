package session

import "errors"

var (
	// ErrNotFound is returned by a Store when nothing is persisted for an id.
	ErrNotFound = errors.New("session not found")
	// ErrMalformed marks a persisted record that cannot be turned into a session.
	ErrMalformed = errors.New("malformed session record")
	// ErrInvalidToken is returned for blank tokens or tokens with whitespace.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrInvalidUser is returned for users without an id.
	ErrInvalidUser = errors.New("invalid session user")
	// ErrNotAuthenticated is returned when an operation needs an authenticated session.
	ErrNotAuthenticated = errors.New("session is not authenticated")
	// ErrEmptyID is returned when a store operation gets a blank session id.
	ErrEmptyID = errors.New("empty session id")
)

package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated matches calls rejected for a missing or invalid
	// bearer token, including calls refused locally for anonymous sessions.
	ErrUnauthenticated = errors.New("backend: not authenticated")

	// ErrConnectivity matches requests that never produced a response.
	ErrConnectivity = errors.New("backend: could not reach the server")

	// ErrInvalidResponse matches 2xx responses whose body could not be decoded.
	ErrInvalidResponse = errors.New("backend: invalid response body")
)

// fallbackMessage is used when a failed response carries no message.
const fallbackMessage = "request failed"

// Error is a non-2xx backend response. Message is the backend's own text and
// is safe to show to the user verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %d: %s", e.Status, e.Message)
}

// StatusCode lets HTTP error handlers reuse the backend status.
func (e *Error) StatusCode() int { return e.Status }

// Is makes 401 and 403 responses match ErrUnauthenticated.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthenticated &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// IsAuth reports whether err requires the user to log in again.
func IsAuth(err error) bool { return errors.Is(err, ErrUnauthenticated) }

// IsConnectivity reports whether err is a transport failure.
func IsConnectivity(err error) bool { return errors.Is(err, ErrConnectivity) }

// Message returns the text to show for a backend error, or "" when err is
// not a backend response error.
func Message(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}

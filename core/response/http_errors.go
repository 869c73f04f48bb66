package response

import "net/http"

// HTTPError is a structured error response that implements the error interface.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError creates an error for the given status with the default text for that status.
func NewHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

func (e HTTPError) Error() string { return e.Message }

// StatusCode lets HTTPError satisfy the router's status code interface.
func (e HTTPError) StatusCode() int { return e.Status }

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy of the error carrying the cause in its details.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

var (
	ErrBadRequest            = NewHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized          = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden             = NewHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound              = NewHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed      = NewHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrConflict              = NewHTTPError(http.StatusConflict, "conflict")
	ErrRequestEntityTooLarge = NewHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrUnprocessableEntity   = NewHTTPError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrTooManyRequests       = NewHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError   = NewHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrBadGateway            = NewHTTPError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable    = NewHTTPError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout        = NewHTTPError(http.StatusGatewayTimeout, "gateway_timeout")
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusUnauthorized:          ErrUnauthorized,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusConflict:              ErrConflict,
	http.StatusRequestEntityTooLarge: ErrRequestEntityTooLarge,
	http.StatusUnprocessableEntity:   ErrUnprocessableEntity,
	http.StatusTooManyRequests:       ErrTooManyRequests,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusBadGateway:            ErrBadGateway,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
	http.StatusGatewayTimeout:        ErrGatewayTimeout,
}

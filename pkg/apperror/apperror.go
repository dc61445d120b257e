package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("not authorized to access this resource")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrDuplicate    = errors.New("resource already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUpstream     = errors.New("upstream service failure")
)

// Error carries a user-facing message alongside one of the sentinel kinds
// above so handlers can render a message while the translator picks the
// HTTP status from the kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New wraps a sentinel kind with a formatted message.
func New(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(ErrNotFound, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(ErrUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(ErrForbidden, format, args...)
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(ErrBadRequest, format, args...)
}

func Duplicate(format string, args ...interface{}) *Error {
	return New(ErrDuplicate, format, args...)
}

func Upstream(format string, args ...interface{}) *Error {
	return New(ErrUpstream, format, args...)
}

// Status maps an error to its HTTP status code. Unknown errors map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

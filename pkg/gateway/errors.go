package gateway

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrUnexpectedValue is returned by an intercepting step receiving something other than a *Request.
var ErrUnexpectedValue = errors.New("unexpected pipeline value")

// StatusError is an error carrying the HTTP status the client should receive.
type StatusError struct {
	Code    int
	Message string
	Cause   error
}

// NewStatusError creates a StatusError. An empty message defaults to the status text of code.
func NewStatusError(code int, message string) *StatusError {
	if message == "" {
		message = http.StatusText(code)
	}

	return &StatusError{Code: code, Message: message}
}

func (e *StatusError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return e.Cause }

// WithCause sets the underlying error and returns the receiver.
func (e *StatusError) WithCause(cause error) *StatusError {
	e.Cause = cause

	return e
}

// statusOf returns the status and the message exposed to the client for err.
// Errors without a StatusError in their chain are hidden behind a 500.
func statusOf(err error) (int, string) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code, statusErr.Message
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

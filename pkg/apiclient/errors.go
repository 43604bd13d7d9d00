package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds every *Error unwraps to
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrRateLimited    = errors.New("rate limited")
	ErrInfrastructure = errors.New("server error")
)

// Error is a non-2xx response decoded from the server's error body
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`

	kind error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.kind, msg, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.kind, msg)
}

func (e *Error) Unwrap() error {
	return e.kind
}

// kindForStatus maps a response status onto the error taxonomy
func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrInfrastructure
	}
}

package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized signals a rejected or missing session credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a request the server or client rejected as malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTransport signals a network-level failure (no HTTP response).
	ErrTransport = errors.New("transport error")
	// ErrServer signals any other non-2xx response.
	ErrServer = errors.New("server error")
	// ErrDeclined signals that the user declined a destructive action.
	ErrDeclined = errors.New("declined by user")
	// ErrBusy signals that an exclusive operation is already running.
	ErrBusy = errors.New("operation already in progress")
)

// APIError is a non-2xx response from the OCR service.
// Message carries the server-provided "message" field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Unwrap().Error(), e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Unwrap().Error(), e.Status, e.Message)
}

// Unwrap maps the status code onto a sentinel.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge,
		http.StatusUnsupportedMediaType:
		return ErrInvalidInput
	default:
		return ErrServer
	}
}

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}

package ocrdesk

import "github.com/kailas-cloud/ocrdesk/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUnauthorized = domain.ErrUnauthorized
	ErrNotFound     = domain.ErrNotFound
	ErrInvalidInput = domain.ErrInvalidInput
	ErrTransport    = domain.ErrTransport
	ErrServer       = domain.ErrServer
	ErrDeclined     = domain.ErrDeclined
	ErrBusy         = domain.ErrBusy
)

// APIError is a non-2xx response from the service.
type APIError = domain.APIError

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) (string, bool) { return domain.ServerMessage(err) }

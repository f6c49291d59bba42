package detail

import (
	"context"

	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
)

// Repository fetches a single document.
type Repository interface {
	Get(ctx context.Context, id string) (domdoc.Document, error)
}

package stats

import (
	"context"

	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
)

// Repository lists the full document set.
type Repository interface {
	ListAll(ctx context.Context) ([]domdoc.Document, error)
}

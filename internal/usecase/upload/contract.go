package upload

import (
	"context"

	domupload "github.com/kailas-cloud/ocrdesk/internal/domain/upload"
)

// Uploader sends one file to the OCR service and returns the new document ID.
type Uploader interface {
	Upload(ctx context.Context, f domupload.File, title string, progress func(sent, total int64)) (string, error)
}

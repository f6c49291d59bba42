package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Status is the server-assigned OCR lifecycle tag.
type Status string

// OCR status values.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ParseStatus validates a wire status string.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown OCR status %q", s)
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Document is the client's read-only projection of a server-owned document.
// Status and ExtractedText change server-side; the client only re-reads them.
type Document struct {
	id            string
	title         string
	originalName  string
	fileType      string
	fileSize      int64
	status        Status
	extractedText string
	fileURL       string
	createdAt     time.Time
}

// Fields carries the raw attributes for New.
type Fields struct {
	ID            string
	Title         string
	OriginalName  string
	FileType      string
	FileSize      int64
	Status        string
	ExtractedText string
	FileURL       string
	CreatedAt     time.Time
}

// New validates and creates a Document. The status is kept as sent by the
// server; statuses outside the known set fall through to the default
// branches of callers (counted in Total only, shown as "no text").
func New(f Fields) (Document, error) {
	if f.ID == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if f.FileSize < 0 {
		return Document{}, fmt.Errorf("file size must be non-negative, got %d", f.FileSize)
	}
	return Document{
		id:            f.ID,
		title:         f.Title,
		originalName:  f.OriginalName,
		fileType:      f.FileType,
		fileSize:      f.FileSize,
		status:        Status(f.Status),
		extractedText: f.ExtractedText,
		fileURL:       f.FileURL,
		createdAt:     f.CreatedAt,
	}, nil
}

// ID returns the opaque document identifier.
func (d Document) ID() string { return d.id }

// Title returns the display name.
func (d Document) Title() string { return d.title }

// OriginalName returns the uploaded filename.
func (d Document) OriginalName() string { return d.originalName }

// FileType returns the MIME type.
func (d Document) FileType() string { return d.fileType }

// FileSize returns the size in bytes.
func (d Document) FileSize() int64 { return d.fileSize }

// Status returns the OCR status.
func (d Document) Status() Status { return d.status }

// ExtractedText returns the OCR text. Empty unless Status is completed.
func (d Document) ExtractedText() string {
	if d.status != StatusCompleted {
		return ""
	}
	return d.extractedText
}

// FileURL returns the retrieval location of the original file.
func (d Document) FileURL() string { return d.fileURL }

// CreatedAt returns the upload timestamp.
func (d Document) CreatedAt() time.Time { return d.createdAt }

// TypeLabel returns the upper-cased MIME subtype ("PDF", "PNG"), or "FILE".
func (d Document) TypeLabel() string { return TypeLabel(d.fileType) }

// SizeLabel returns a human-readable file size.
func (d Document) SizeLabel() string { return SizeLabel(d.fileSize) }

// TypeLabel derives a short label from a MIME type.
func TypeLabel(mime string) string {
	_, sub, ok := strings.Cut(mime, "/")
	if !ok || sub == "" {
		return "FILE"
	}
	return strings.ToUpper(sub)
}

// SizeLabel formats bytes with binary units.
func SizeLabel(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

package upload

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxFileSize is the client-side upload size limit (10 MiB).
const MaxFileSize int64 = 10 * 1024 * 1024

// AllowedTypes is the set of media types accepted for OCR.
var AllowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/jpg":       {},
	"application/pdf": {},
}

var (
	// ErrUnsupportedType signals a media type outside AllowedTypes.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge signals a file above MaxFileSize.
	ErrTooLarge = errors.New("file too large")
)

// File is a user-selected file. Open is called once per upload attempt.
type File struct {
	Name string
	Type string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Validate returns every violated acceptance clause joined, or nil.
func Validate(f File) error {
	var errs []error
	if _, ok := AllowedTypes[f.Type]; !ok {
		errs = append(errs, fmt.Errorf("%q: %w", f.Type, ErrUnsupportedType))
	}
	if f.Size > MaxFileSize {
		errs = append(errs, fmt.Errorf("%d bytes exceeds %d: %w", f.Size, MaxFileSize, ErrTooLarge))
	}
	return errors.Join(errs...)
}

// Candidate is a validated, not-yet-uploaded file with its default title.
type Candidate struct {
	file  File
	title string
}

// NewCandidate validates f and derives its title.
func NewCandidate(f File) (Candidate, error) {
	if err := Validate(f); err != nil {
		return Candidate{}, err
	}
	return Candidate{file: f, title: DeriveTitle(f.Name)}, nil
}

// Filter keeps the acceptable files in selection order. Rejected files are
// dropped without a report.
func Filter(files []File) []Candidate {
	out := make([]Candidate, 0, len(files))
	for _, f := range files {
		c, err := NewCandidate(f)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// File returns the underlying file.
func (c Candidate) File() File { return c.file }

// Name returns the original filename.
func (c Candidate) Name() string { return c.file.Name }

// Title returns the derived upload title.
func (c Candidate) Title() string { return c.title }

// DeriveTitle strips the last extension from a filename. A name that would
// become empty (".env") is kept whole.
func DeriveTitle(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 || strings.ContainsRune(name[i+1:], '/') {
		return name
	}
	if i == 0 {
		return name
	}
	return name[:i]
}

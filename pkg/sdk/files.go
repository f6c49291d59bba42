package ocrdesk

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FileFromPath describes a local file for upload. The media type comes from
// the extension, falling back to content sniffing.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("ocrdesk: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("ocrdesk: %s is a directory: %w", path, ErrInvalidInput)
	}

	typ, err := mediaType(path)
	if err != nil {
		return File{}, err
	}

	return File{
		Name: filepath.Base(path),
		Type: typ,
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func mediaType(path string) (string, error) {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		t, _, _ = strings.Cut(t, ";")
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("ocrdesk: open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("ocrdesk: read %s: %w", path, err)
	}
	t, _, _ := strings.Cut(http.DetectContentType(head[:n]), ";")
	return t, nil
}

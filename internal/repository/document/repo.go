package document

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
	"github.com/kailas-cloud/ocrdesk/internal/domain/listing"
	"github.com/kailas-cloud/ocrdesk/internal/domain/upload"
	"github.com/kailas-cloud/ocrdesk/internal/metrics"
	"github.com/kailas-cloud/ocrdesk/internal/transport/api"
)

// Multipart field names expected by the upload endpoint.
const (
	FieldFile  = "document"
	FieldTitle = "title"
)

const routeDocument = "/documents/{id}"

// transport is the consumer interface for the session client (ISP).
type transport interface {
	Do(ctx context.Context, req api.Request, out any) error
}

// Repo reads and writes documents through the OCR service API.
type Repo struct {
	api transport
}

// New creates a document repository.
func New(t transport) *Repo {
	return &Repo{api: t}
}

// List fetches one page. The query page is zero-based; the wire page is 1-based.
func (r *Repo) List(ctx context.Context, q listing.Query) (listing.Page, error) {
	query := url.Values{
		"page":   {strconv.Itoa(q.WirePage())},
		"limit":  {strconv.Itoa(q.PageSize)},
		"search": {q.Search},
	}
	var resp listResponse
	err := r.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "/documents", Query: query}, &resp)
	if err != nil {
		return listing.Page{}, fmt.Errorf("list documents: %w", err)
	}
	docs, err := toDomainList(resp.Documents)
	if err != nil {
		return listing.Page{}, fmt.Errorf("list documents: %w", err)
	}
	total := len(docs)
	if resp.Pagination != nil {
		total = resp.Pagination.Total
	}
	return listing.Page{Items: docs, Total: total}, nil
}

// ListAll fetches the document set without pagination parameters.
func (r *Repo) ListAll(ctx context.Context) ([]domdoc.Document, error) {
	var resp listResponse
	err := r.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "/documents"}, &resp)
	if err != nil {
		return nil, fmt.Errorf("list all documents: %w", err)
	}
	docs, err := toDomainList(resp.Documents)
	if err != nil {
		return nil, fmt.Errorf("list all documents: %w", err)
	}
	return docs, nil
}

// Search runs the full-text search endpoint.
func (r *Repo) Search(ctx context.Context, text string) ([]domdoc.Document, error) {
	var resp listResponse
	req := api.Request{Method: http.MethodGet, Path: "/documents/search", Query: url.Values{"q": {text}}}
	if err := r.api.Do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	docs, err := toDomainList(resp.Documents)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}

// Get fetches one document. A response without a document maps to domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	var resp getResponse
	req := api.Request{Method: http.MethodGet, Path: docPath(id), Route: routeDocument}
	if err := r.api.Do(ctx, req, &resp); err != nil {
		return domdoc.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	if resp.Document == nil {
		return domdoc.Document{}, fmt.Errorf("get document %s: %w", id, domain.ErrNotFound)
	}
	doc, err := resp.Document.toDomain()
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	req := api.Request{Method: http.MethodDelete, Path: docPath(id), Route: routeDocument}
	if err := r.api.Do(ctx, req, nil); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Upload streams f as a multipart request with the given title and returns
// the created document ID ("" if the server omits it). progress, if set,
// receives the file bytes sent so far.
func (r *Repo) Upload(ctx context.Context, f upload.File, title string, progress func(sent, total int64)) (string, error) {
	if f.Open == nil {
		return "", fmt.Errorf("upload %s: no content: %w", f.Name, domain.ErrInvalidInput)
	}
	src, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("upload %s: open: %w", f.Name, err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { _ = src.Close() }()
		pw.CloseWithError(writeMultipart(mw, f, title, src, progress))
	}()

	var resp uploadResponse
	err = r.api.Do(ctx, api.Request{
		Method:      http.MethodPost,
		Path:        "/upload",
		Body:        pr,
		ContentType: mw.FormDataContentType(),
	}, &resp)
	// unblocks the writer if the request ended before the body was drained
	_ = pr.Close()
	<-done
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", f.Name, err)
	}
	if resp.Document == nil {
		return "", nil
	}
	return resp.Document.id(), nil
}

func writeMultipart(mw *multipart.Writer, f upload.File, title string, src io.Reader, progress func(sent, total int64)) error {
	if err := mw.WriteField(FieldTitle, title); err != nil {
		return fmt.Errorf("write title: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldFile, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", f.Type)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}

	n, err := io.Copy(part, &progressReader{reader: src, total: f.Size, onProgress: progress})
	metrics.UploadBytesTotal.Add(float64(n))
	if err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func docPath(id string) string { return "/documents/" + url.PathEscape(id) }

// progressReader reports bytes read from the file part.
type progressReader struct {
	reader     io.Reader
	total      int64
	current    int64
	onProgress func(sent, total int64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.current += int64(n)
		if r.onProgress != nil {
			r.onProgress(r.current, r.total)
		}
	}
	return n, err //nolint:wrapcheck // io.Reader contract
}

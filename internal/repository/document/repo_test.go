package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
	"github.com/kailas-cloud/ocrdesk/internal/domain/listing"
	"github.com/kailas-cloud/ocrdesk/internal/domain/upload"
	"github.com/kailas-cloud/ocrdesk/internal/session"
	"github.com/kailas-cloud/ocrdesk/internal/transport/api"
)

const listBody = `{
  "documents": [
    {"_id": "d1", "title": "Invoice", "originalName": "invoice.pdf", "fileType": "application/pdf",
     "fileSize": 2048, "ocrStatus": "completed", "extractedText": "total 42", "createdAt": "2026-01-02T03:04:05Z"},
    {"_id": "d2", "title": "Scan", "originalName": "scan.png", "fileType": "image/png",
     "fileSize": 10, "ocrStatus": "processing"}
  ],
  "pagination": {"total": 23, "page": 1, "limit": 10, "pages": 3}
}`

func TestList_SendsWireQueryAndMapsPage(t *testing.T) {
	m := &mockTransport{doFn: respond(t, listBody)}
	repo := New(m)

	page, err := repo.List(context.Background(), listing.Query{Page: 2, PageSize: 5, Search: "inv"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	req := m.calls[0]
	if req.Method != http.MethodGet || req.Path != "/documents" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if got := req.Query.Get("page"); got != "3" {
		t.Errorf("page = %q, want 3", got)
	}
	if got := req.Query.Get("limit"); got != "5" {
		t.Errorf("limit = %q, want 5", got)
	}
	if got := req.Query.Get("search"); got != "inv" {
		t.Errorf("search = %q, want inv", got)
	}
	if page.Total != 23 {
		t.Errorf("total = %d, want 23", page.Total)
	}
	if len(page.Items) != 2 || page.Items[0].ID() != "d1" {
		t.Fatalf("items = %+v", page.Items)
	}
	if page.Items[0].ExtractedText() != "total 42" {
		t.Errorf("text = %q", page.Items[0].ExtractedText())
	}
	if page.Items[1].Status() != domdoc.StatusProcessing {
		t.Errorf("status = %q", page.Items[1].Status())
	}
}

func TestList_MissingPaginationFallsBackToLen(t *testing.T) {
	m := &mockTransport{doFn: respond(t, `{"documents":[{"_id":"a","ocrStatus":"pending"}]}`)}
	page, err := New(m).List(context.Background(), listing.Query{PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("total = %d, want 1", page.Total)
	}
}

func TestListAll_UnknownStatusKept(t *testing.T) {
	m := &mockTransport{doFn: respond(t, `{"documents":[`+
		`{"_id":"a","ocrStatus":"completed","extractedText":"hi"},`+
		`{"_id":"b","ocrStatus":"queued"}]}`)}
	docs, err := New(m).ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len = %d, want 2", len(docs))
	}
	if docs[1].Status() != "queued" {
		t.Errorf("status = %q, want queued", docs[1].Status())
	}
}

func TestGet_UnknownStatusKept(t *testing.T) {
	m := &mockTransport{doFn: respond(t, `{"document":{"_id":"b","ocrStatus":"queued"}}`)}
	doc, err := New(m).Get(context.Background(), "b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Status() != "queued" {
		t.Errorf("status = %q", doc.Status())
	}
}

func TestList_CreatedAtTolerant(t *testing.T) {
	m := &mockTransport{doFn: respond(t, `{"documents":[`+
		`{"_id":"a","ocrStatus":"pending","createdAt":""},`+
		`{"_id":"b","ocrStatus":"pending","createdAt":"not a date"},`+
		`{"_id":"c","ocrStatus":"pending","createdAt":null},`+
		`{"_id":"d","ocrStatus":"pending","createdAt":"2026-03-01T10:00:00.123Z"},`+
		`{"_id":"e","ocrStatus":"pending","createdAt":"2026-03-01 10:00:00"},`+
		`{"_id":"f","ocrStatus":"pending","createdAt":1772359200000}]}`)}
	page, err := New(m).List(context.Background(), listing.Query{PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 6 {
		t.Fatalf("len = %d, want 6", len(page.Items))
	}
	for _, i := range []int{0, 1, 2} {
		if !page.Items[i].CreatedAt().IsZero() {
			t.Errorf("%s: createdAt = %v, want zero", page.Items[i].ID(), page.Items[i].CreatedAt())
		}
	}
	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if got := page.Items[3].CreatedAt(); !got.Truncate(time.Second).Equal(want) {
		t.Errorf("rfc3339 millis: got %v", got)
	}
	if got := page.Items[4].CreatedAt(); !got.Equal(want) {
		t.Errorf("space layout: got %v", got)
	}
	if got := page.Items[5].CreatedAt(); !got.Equal(want) {
		t.Errorf("epoch millis: got %v", got)
	}
}

func TestListAll_NoPaginationParams(t *testing.T) {
	m := &mockTransport{doFn: respond(t, listBody)}
	docs, err := New(m).ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("len = %d, want 2", len(docs))
	}
	if len(m.calls[0].Query) != 0 {
		t.Errorf("query = %v, want none", m.calls[0].Query)
	}
}

func TestSearch(t *testing.T) {
	m := &mockTransport{doFn: respond(t, listBody)}
	if _, err := New(m).Search(context.Background(), "total"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	req := m.calls[0]
	if req.Path != "/documents/search" || req.Query.Get("q") != "total" {
		t.Errorf("request = %s ?%v", req.Path, req.Query)
	}
}

func TestGet(t *testing.T) {
	m := &mockTransport{doFn: respond(t, `{"document":{"_id":"d1","title":"Invoice","ocrStatus":"failed"}}`)}
	doc, err := New(m).Get(context.Background(), "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ID() != "d1" || doc.Status() != domdoc.StatusFailed {
		t.Errorf("doc = %s/%s", doc.ID(), doc.Status())
	}
	if m.calls[0].Path != "/documents/d1" || m.calls[0].Route != routeDocument {
		t.Errorf("request = %+v", m.calls[0])
	}
}

func TestGet_MissingDocument(t *testing.T) {
	m := &mockTransport{doFn: respond(t, `{}`)}
	_, err := New(m).Get(context.Background(), "d1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGet_TransportError(t *testing.T) {
	m := &mockTransport{doFn: func(context.Context, api.Request, any) error {
		return &domain.APIError{Status: http.StatusNotFound}
	}}
	_, err := New(m).Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	m := &mockTransport{}
	if err := New(m).Delete(context.Background(), "a/b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if m.calls[0].Method != http.MethodDelete || m.calls[0].Path != "/documents/a%2Fb" {
		t.Errorf("request = %s %s", m.calls[0].Method, m.calls[0].Path)
	}
}

func fileOf(name, typ string, data []byte) upload.File {
	return upload.File{
		Name: name,
		Type: typ,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func TestUpload_MultipartAndProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 100_000)

	var gotTitle, gotName, gotType string
	var gotLen int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			http.Error(w, "unexpected", http.StatusBadRequest)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotTitle = r.FormValue(FieldTitle)
		f, hdr, err := r.FormFile(FieldFile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer func() { _ = f.Close() }()
		data, _ := io.ReadAll(f)
		gotLen = len(data)
		gotName = hdr.Filename
		gotType = hdr.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"ok","document":{"_id":"new-1","title":"scan"}}`)
	}))
	defer srv.Close()

	client, err := api.New(api.Config{BaseURL: srv.URL}, session.New(nil, nil))
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}

	var mu sync.Mutex
	var last, calls int64
	id, err := New(client).Upload(context.Background(), fileOf("scan.png", "image/png", payload), "scan",
		func(sent, total int64) {
			mu.Lock()
			defer mu.Unlock()
			if total != int64(len(payload)) {
				t.Errorf("total = %d", total)
			}
			if sent < last {
				t.Errorf("progress went backwards: %d < %d", sent, last)
			}
			last = sent
			calls++
		})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id != "new-1" {
		t.Errorf("id = %q, want new-1", id)
	}
	if gotTitle != "scan" || gotName != "scan.png" || gotType != "image/png" {
		t.Errorf("part = title %q name %q type %q", gotTitle, gotName, gotType)
	}
	if gotLen != len(payload) {
		t.Errorf("server received %d bytes, want %d", gotLen, len(payload))
	}
	if last != int64(len(payload)) || calls == 0 {
		t.Errorf("final progress = %d after %d calls", last, calls)
	}
}

func TestUpload_ServerMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = io.WriteString(w, `{"message":"File too large"}`)
	}))
	defer srv.Close()

	client, err := api.New(api.Config{BaseURL: srv.URL}, session.New(nil, nil))
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	_, err = New(client).Upload(context.Background(), fileOf("a.pdf", "application/pdf", []byte("%PDF")), "a", nil)
	msg, ok := domain.ServerMessage(err)
	if !ok || msg != "File too large" {
		t.Fatalf("ServerMessage = %q, %v (err %v)", msg, ok, err)
	}
}

func TestUpload_OpenFailure(t *testing.T) {
	m := &mockTransport{}
	f := upload.File{Name: "a.pdf", Type: "application/pdf", Open: func() (io.ReadCloser, error) {
		return nil, errors.New("permission denied")
	}}
	_, err := New(m).Upload(context.Background(), f, "a", nil)
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("err = %v", err)
	}
	if len(m.calls) != 0 {
		t.Errorf("expected no request, got %d", len(m.calls))
	}
}

package ocrdesk

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/ocrdesk/internal/domain/detail"
	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
	"github.com/kailas-cloud/ocrdesk/internal/domain/listing"
	domstats "github.com/kailas-cloud/ocrdesk/internal/domain/stats"
	"github.com/kailas-cloud/ocrdesk/internal/domain/upload"
	uploaduc "github.com/kailas-cloud/ocrdesk/internal/usecase/upload"
)

// --- Mocks ---

type mockUploads struct {
	candidates []upload.Candidate
	report     upload.Report
	err        error
}

func (m *mockUploads) Select(files []upload.File) ([]upload.Candidate, error) {
	m.candidates = upload.Filter(files)
	return m.candidates, m.err
}
func (m *mockUploads) Remove(int) error { return m.err }
func (m *mockUploads) Candidates() []upload.Candidate { return m.candidates }
func (m *mockUploads) Progress() []uploaduc.Progress { return []uploaduc.Progress{{Name: "a.pdf", Percent: 40}} }
func (m *mockUploads) Launch(context.Context) (upload.Report, error) {
	return m.report, m.err
}

type mockCollection struct {
	snap listing.Snapshot
	err  error
}

func (m *mockCollection) Snapshot() listing.Snapshot { return m.snap }
func (m *mockCollection) Fetch(context.Context) error { return m.err }
func (m *mockCollection) Refresh(context.Context) error { return m.err }
func (m *mockCollection) SetPage(context.Context, int) error { return m.err }
func (m *mockCollection) SetPageSize(context.Context, int) error { return m.err }
func (m *mockCollection) SetSearch(context.Context, string) error { return m.err }
func (m *mockCollection) Delete(context.Context, string, string) error { return m.err }

type mockStats struct {
	counts domstats.Counts
	err    error
}

func (m *mockStats) Counts() domstats.Counts { return m.counts }
func (m *mockStats) Refresh(context.Context) (domstats.Counts, error) {
	return m.counts, m.err
}

type mockDetail struct {
	view detail.View
}

func (m *mockDetail) Load(context.Context, string) detail.View { return m.view }

type mockSearcher struct {
	docs []domdoc.Document
	err  error
}

func (m *mockSearcher) Search(context.Context, string) ([]domdoc.Document, error) {
	return m.docs, m.err
}

func mustDoc(t *testing.T, id, status, text string) domdoc.Document {
	t.Helper()
	d, err := domdoc.New(domdoc.Fields{
		ID:            id,
		Title:         "Doc " + id,
		OriginalName:  id + ".pdf",
		FileType:      "application/pdf",
		FileSize:      2048,
		Status:        status,
		ExtractedText: text,
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("domdoc.New: %v", err)
	}
	return d
}

package ocrdesk

import (
	"context"
	"time"

	"github.com/kailas-cloud/ocrdesk/internal/domain/detail"
	"github.com/kailas-cloud/ocrdesk/internal/domain/document"
	"github.com/kailas-cloud/ocrdesk/internal/domain/listing"
	"github.com/kailas-cloud/ocrdesk/internal/domain/notify"
	domstats "github.com/kailas-cloud/ocrdesk/internal/domain/stats"
	"github.com/kailas-cloud/ocrdesk/internal/domain/upload"
	authrepo "github.com/kailas-cloud/ocrdesk/internal/repository/auth"
	"github.com/kailas-cloud/ocrdesk/internal/usecase/collection"
)

// Status is the OCR lifecycle of a document.
type Status string

// Status values.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Document is a server-owned document as last read by the client.
type Document struct {
	ID            string
	Title         string
	OriginalName  string
	FileType      string
	FileSize      int64
	Status        Status
	ExtractedText string
	FileURL       string
	CreatedAt     time.Time
}

// TypeLabel returns the upper-cased MIME subtype ("PDF", "PNG"), or "FILE".
func (d Document) TypeLabel() string { return document.TypeLabel(d.FileType) }

// SizeLabel returns a human-readable file size.
func (d Document) SizeLabel() string { return document.SizeLabel(d.FileSize) }

// File is a file selected for upload. Open is called once per attempt.
type File = upload.File

// MaxFileSize is the largest accepted upload in bytes.
const MaxFileSize = upload.MaxFileSize

// Candidate is a queued upload.
type Candidate struct {
	Name  string
	Title string
	Type  string
	Size  int64
}

// UploadProgress is the transfer progress of one queued file.
type UploadProgress struct {
	Name    string
	Percent int
}

// UploadFailure describes one file that failed to upload.
type UploadFailure struct {
	Name   string
	Reason string
}

// UploadReport is the outcome of one launched batch.
type UploadReport struct {
	Succeeded int
	Failed    []UploadFailure
}

// Notification is a transient user message.
type Notification = notify.Notification

// Level is the notification severity.
type Level = notify.Level

// Notification levels.
const (
	LevelSuccess = notify.LevelSuccess
	LevelError   = notify.LevelError
	LevelInfo    = notify.LevelInfo
)

// Notifier receives notifications. Implementations must be safe for concurrent use.
type Notifier = notify.Notifier

// NotifyFunc adapts a function to Notifier.
type NotifyFunc = notify.Func

// Confirmer approves or declines a destructive action.
type Confirmer = collection.Confirmer

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc = collection.ConfirmFunc

// TokenStore persists the session credential between runs.
// Load returns "" with a nil error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// ListState is the display state of the document listing.
type ListState string

// ListState values.
const (
	ListIdle    ListState = "idle"
	ListLoading ListState = "loading"
	ListLoaded  ListState = "loaded"
	ListEmpty   ListState = "empty"
)

// Snapshot is a copy of the document listing state.
type Snapshot struct {
	Page         int
	PageSize     int
	Search       string
	Total        int
	PageCount    int
	Items        []Document
	Loading      bool
	State        ListState
	EmptyMessage string
}

// Counts summarizes all documents by OCR status.
type Counts struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
}

// DetailState is the display state of a single-document view.
type DetailState string

// DetailState values.
const (
	DetailProcessing DetailState = "processing"
	DetailFailed     DetailState = "failed"
	DetailText       DetailState = "text"
	DetailNoText     DetailState = "no_text"
	DetailError      DetailState = "error"
)

// DetailView is the outcome of loading one document.
// Document is nil in DetailError.
type DetailView struct {
	State    DetailState
	Document *Document
	Text     string
	Message  string
}

// User is the authenticated account.
type User struct {
	ID       string
	Username string
	Email    string
}

// Registration is the sign-up form.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Route is the screen a front end shows.
type Route string

// Routes.
const (
	RouteLogin     Route = "login"
	RouteDashboard Route = "dashboard"
)

// --- Converters ---

func documentFromDomain(d document.Document) Document {
	return Document{
		ID:            d.ID(),
		Title:         d.Title(),
		OriginalName:  d.OriginalName(),
		FileType:      d.FileType(),
		FileSize:      d.FileSize(),
		Status:        Status(d.Status()),
		ExtractedText: d.ExtractedText(),
		FileURL:       d.FileURL(),
		CreatedAt:     d.CreatedAt(),
	}
}

func candidatesFromDomain(cs []upload.Candidate) []Candidate {
	out := make([]Candidate, len(cs))
	for i, c := range cs {
		f := c.File()
		out[i] = Candidate{Name: c.Name(), Title: c.Title(), Type: f.Type, Size: f.Size}
	}
	return out
}

func reportFromDomain(r upload.Report) UploadReport {
	out := UploadReport{Succeeded: r.Succeeded}
	for _, f := range r.Failed {
		out.Failed = append(out.Failed, UploadFailure{Name: f.Name(), Reason: f.Reason()})
	}
	return out
}

func listStateFromKind(k listing.Kind) ListState {
	switch k {
	case listing.KindLoading:
		return ListLoading
	case listing.KindLoaded:
		return ListLoaded
	case listing.KindEmpty:
		return ListEmpty
	default:
		return ListIdle
	}
}

func snapshotFromDomain(s listing.Snapshot) Snapshot {
	items := make([]Document, len(s.Items))
	for i, d := range s.Items {
		items[i] = documentFromDomain(d)
	}
	return Snapshot{
		Page:         s.Query.Page,
		PageSize:     s.Query.PageSize,
		Search:       s.Query.Search,
		Total:        s.Total,
		PageCount:    s.PageCount(),
		Items:        items,
		Loading:      s.Loading,
		State:        listStateFromKind(s.Kind),
		EmptyMessage: s.EmptyMessage(),
	}
}

func countsFromDomain(c domstats.Counts) Counts {
	return Counts{
		Total:      c.Total,
		Pending:    c.Pending,
		Processing: c.Processing,
		Completed:  c.Completed,
		Failed:     c.Failed,
	}
}

func detailFromDomain(v detail.View) DetailView {
	out := DetailView{
		State:   DetailState(v.State()),
		Text:    v.Text(),
		Message: v.Message(),
	}
	if d, ok := v.Document(); ok {
		doc := documentFromDomain(d)
		out.Document = &doc
	}
	return out
}

func userFromDomain(u authrepo.User) User {
	return User{ID: u.ID, Username: u.Username, Email: u.Email}
}

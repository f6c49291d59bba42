// Package collection keeps the paginated, searchable document listing.
//
// Every state change issues a new fetch. Fetches are not cancelled when
// superseded; each carries a generation number and only the response of the
// most recent generation is applied.
package collection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
	"github.com/kailas-cloud/ocrdesk/internal/domain/listing"
	"github.com/kailas-cloud/ocrdesk/internal/domain/notify"
	"github.com/kailas-cloud/ocrdesk/internal/metrics"
)

// Notification texts.
const (
	MessageFetchFailed  = "Error fetching documents"
	MessageDeleted      = "Document deleted successfully"
	MessageDeleteFailed = "Error deleting document"
)

// DeletePrompt returns the confirmation text for deleting a document.
func DeletePrompt(title string) string {
	return fmt.Sprintf("Are you sure you want to delete %q?", title)
}

// Service is the document collection view.
type Service struct {
	repo     Repository
	confirm  Confirmer
	notifier notify.Notifier
	logger   *zap.Logger
	debounce time.Duration
	onChange func(listing.Snapshot)

	mu    sync.Mutex
	query listing.Query
	total int
	items []domdoc.Document
	kind  listing.Kind
	gen   uint64
}

// New creates a collection view with the default page size.
func New(repo Repository, confirm Confirmer, notifier notify.Notifier, logger *zap.Logger) *Service {
	if confirm == nil {
		confirm = AlwaysConfirm
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		confirm:  confirm,
		notifier: notifier,
		logger:   logger,
		query:    listing.Query{PageSize: listing.DefaultPageSize},
		kind:     listing.KindIdle,
	}
}

// WithPageSize sets the initial page size. Invalid sizes are ignored.
func (s *Service) WithPageSize(size int) *Service {
	if listing.ValidPageSize(size) {
		s.query.PageSize = size
	}
	return s
}

// WithSearchDebounce delays search-triggered fetches by d.
// A debounced fetch superseded while waiting is never sent.
func (s *Service) WithSearchDebounce(d time.Duration) *Service {
	if d > 0 {
		s.debounce = d
	}
	return s
}

// OnChange registers a listener called after every state change.
func (s *Service) OnChange(fn func(listing.Snapshot)) *Service {
	s.onChange = fn
	return s
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() listing.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Fetch requests the current query and applies the response if it is still
// the newest one.
func (s *Service) Fetch(ctx context.Context) error {
	return s.fetch(ctx, s.begin())
}

// Refresh refetches the current query. Used as the external change signal.
func (s *Service) Refresh(ctx context.Context) error {
	return s.Fetch(ctx)
}

// SetPage moves to a zero-based page.
func (s *Service) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		return fmt.Errorf("page %d: %w", page, domain.ErrInvalidInput)
	}
	s.mu.Lock()
	s.query = s.query.WithPage(page)
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// SetPageSize changes the page size and returns to the first page.
func (s *Service) SetPageSize(ctx context.Context, size int) error {
	if !listing.ValidPageSize(size) {
		return fmt.Errorf("page size %d not in %v: %w", size, listing.PageSizes, domain.ErrInvalidInput)
	}
	s.mu.Lock()
	s.query = s.query.WithPageSize(size)
	s.mu.Unlock()
	return s.Fetch(ctx)
}

// SetSearch changes the search text and returns to the first page before
// fetching. With a debounce configured it blocks for the debounce interval.
func (s *Service) SetSearch(ctx context.Context, search string) error {
	s.mu.Lock()
	s.query = s.query.WithSearch(search)
	s.mu.Unlock()

	gen := s.begin()
	if s.debounce > 0 {
		t := time.NewTimer(s.debounce)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return fmt.Errorf("search debounce: %w", ctx.Err())
		}
	}
	return s.fetch(ctx, gen)
}

// Delete asks for confirmation, deletes the document and refetches the
// current query. A declined prompt returns domain.ErrDeclined without
// sending anything.
func (s *Service) Delete(ctx context.Context, id, title string) error {
	if !s.confirm.Confirm(ctx, DeletePrompt(title)) {
		return domain.ErrDeclined
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("delete document failed", zap.String("id", id), zap.Error(err))
		s.notifier.Notify(notify.Error(MessageDeleteFailed))
		return fmt.Errorf("delete document: %w", err)
	}
	s.notifier.Notify(notify.Success(MessageDeleted))

	// the refetch reports its own failure
	if err := s.Fetch(ctx); err != nil {
		s.logger.Debug("refetch after delete failed", zap.Error(err))
	}
	return nil
}

// begin reserves a new generation and marks the view as loading.
func (s *Service) begin() uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.kind = listing.KindLoading
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(snap)
	return gen
}

func (s *Service) fetch(ctx context.Context, gen uint64) error {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil
	}
	q := s.query
	s.mu.Unlock()

	page, err := s.repo.List(ctx, q)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		metrics.StaleResponsesTotal.Inc()
		s.logger.Debug("discarding stale listing response", zap.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		s.items = nil
		s.kind = listing.KindEmpty
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.logger.Warn("fetch documents failed", zap.Error(err))
		s.notifier.Notify(notify.Error(MessageFetchFailed))
		s.emit(snap)
		return fmt.Errorf("fetch documents: %w", err)
	}

	items := page.Items
	if len(items) > q.PageSize {
		items = items[:q.PageSize]
	}
	s.items = items
	s.total = page.Total
	if len(items) == 0 {
		s.kind = listing.KindEmpty
	} else {
		s.kind = listing.KindLoaded
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(snap)
	return nil
}

func (s *Service) snapshotLocked() listing.Snapshot {
	items := make([]domdoc.Document, len(s.items))
	copy(items, s.items)
	return listing.Snapshot{
		Query:   s.query,
		Total:   s.total,
		Items:   items,
		Loading: s.kind == listing.KindLoading,
		Kind:    s.kind,
	}
}

func (s *Service) emit(snap listing.Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

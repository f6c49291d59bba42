// Package upload runs batches of concurrent file uploads.
package upload

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	"github.com/kailas-cloud/ocrdesk/internal/domain/notify"
	domupload "github.com/kailas-cloud/ocrdesk/internal/domain/upload"
	"github.com/kailas-cloud/ocrdesk/internal/metrics"
)

// Progress is the transfer state of one file in the running batch.
type Progress struct {
	Name    string
	Percent int
}

// Service holds the candidate queue and launches uploads.
type Service struct {
	uploader   Uploader
	notifier   notify.Notifier
	logger     *zap.Logger
	onComplete []func(ctx context.Context)
	onProgress func(index int, p Progress)

	mu       sync.Mutex
	queue    []domupload.Candidate
	progress []Progress
	busy     bool
}

// New creates an upload service.
func New(uploader Uploader, notifier notify.Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{uploader: uploader, notifier: notifier, logger: logger}
}

// OnComplete registers fn to run after a batch with at least one success.
// Must be called before the first Launch.
func (s *Service) OnComplete(fn func(ctx context.Context)) {
	s.onComplete = append(s.onComplete, fn)
}

// OnProgress sets a listener for per-file progress changes.
// Must be called before the first Launch.
func (s *Service) OnProgress(fn func(index int, p Progress)) {
	s.onProgress = fn
}

// Select replaces the queue with the acceptable files among files.
// Rejected files are dropped without notice.
func (s *Service) Select(files []domupload.File) ([]domupload.Candidate, error) {
	accepted := domupload.Filter(files)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, domain.ErrBusy
	}
	s.queue = accepted
	s.progress = nil
	return cloneCandidates(accepted), nil
}

// Remove drops the candidate at index from the queue.
func (s *Service) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	if index < 0 || index >= len(s.queue) {
		return fmt.Errorf("candidate index %d out of range [0,%d): %w", index, len(s.queue), domain.ErrInvalidInput)
	}
	s.queue = append(s.queue[:index:index], s.queue[index+1:]...)
	return nil
}

// Candidates returns a copy of the queue.
func (s *Service) Candidates() []domupload.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCandidates(s.queue)
}

// Progress returns the per-file progress of the current or last batch.
func (s *Service) Progress() []Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Progress, len(s.progress))
	copy(out, s.progress)
	return out
}

// Launch uploads every queued candidate concurrently and waits for all of
// them to settle. One failure never cancels the others. The queue is cleared
// afterwards, whatever the outcome. An empty queue is a no-op.
func (s *Service) Launch(ctx context.Context) (domupload.Report, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return domupload.Report{}, domain.ErrBusy
	}
	batch := cloneCandidates(s.queue)
	if len(batch) == 0 {
		s.mu.Unlock()
		return domupload.Report{}, nil
	}
	s.busy = true
	s.progress = make([]Progress, len(batch))
	for i, c := range batch {
		s.progress[i] = Progress{Name: c.Name()}
	}
	s.mu.Unlock()

	results := make([]domupload.Result, len(batch))
	var g errgroup.Group
	for i, c := range batch {
		g.Go(func() error {
			results[i] = s.uploadOne(ctx, i, c)
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	s.queue = nil
	s.busy = false
	s.mu.Unlock()

	report := domupload.Summarize(results)
	s.logger.Info("upload batch settled",
		zap.Int("files", len(batch)),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", len(report.Failed)),
	)

	if report.Succeeded > 0 {
		s.notifier.Notify(notify.Success(fmt.Sprintf("Successfully uploaded %d file(s)", report.Succeeded)))
		for _, fn := range s.onComplete {
			fn(ctx)
		}
	}
	for _, r := range report.Failed {
		s.notifier.Notify(notify.Error(fmt.Sprintf("Failed to upload %s: %s", r.Name(), r.Reason())))
	}
	return report, nil
}

func (s *Service) uploadOne(ctx context.Context, index int, c domupload.Candidate) domupload.Result {
	id, err := s.uploader.Upload(ctx, c.File(), c.Title(), func(sent, total int64) {
		if total <= 0 {
			return
		}
		// 100 is reserved for the settled state
		s.setProgress(index, min(int(sent*100/total), 99))
	})
	s.setProgress(index, 100)

	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(domupload.OutcomeError)).Inc()
		reason, _ := domain.ServerMessage(err)
		s.logger.Warn("upload failed", zap.String("file", c.Name()), zap.Error(err))
		return domupload.NewError(c.Name(), reason, err)
	}
	metrics.UploadsTotal.WithLabelValues(string(domupload.OutcomeOK)).Inc()
	return domupload.NewOK(c.Name(), id)
}

func (s *Service) setProgress(index, percent int) {
	s.mu.Lock()
	if index >= len(s.progress) || s.progress[index].Percent >= percent {
		s.mu.Unlock()
		return
	}
	s.progress[index].Percent = percent
	p := s.progress[index]
	s.mu.Unlock()

	if s.onProgress != nil {
		s.onProgress(index, p)
	}
}

func cloneCandidates(in []domupload.Candidate) []domupload.Candidate {
	if in == nil {
		return nil
	}
	out := make([]domupload.Candidate, len(in))
	copy(out, in)
	return out
}

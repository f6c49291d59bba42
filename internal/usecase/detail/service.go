package detail

import (
	"context"

	"go.uber.org/zap"

	domdetail "github.com/kailas-cloud/ocrdesk/internal/domain/detail"
	"github.com/kailas-cloud/ocrdesk/internal/domain/notify"
)

// Service loads the detail view of one document. It shares no state with
// the collection view.
type Service struct {
	repo     Repository
	notifier notify.Notifier
	logger   *zap.Logger
}

// New creates a detail service.
func New(repo Repository, notifier notify.Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Load fetches the document and derives its display state. A failed fetch
// or a missing document yields the error state and an error notification.
func (s *Service) Load(ctx context.Context, id string) domdetail.View {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn("fetch document failed", zap.String("id", id), zap.Error(err))
		s.notifier.Notify(notify.Error(domdetail.MessageError))
		return domdetail.Failure(domdetail.MessageNotFound)
	}
	return domdetail.FromDocument(doc)
}

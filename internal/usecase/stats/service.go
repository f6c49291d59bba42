package stats

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	domstats "github.com/kailas-cloud/ocrdesk/internal/domain/stats"
)

// Service keeps the dashboard status counts.
type Service struct {
	repo   Repository
	logger *zap.Logger

	mu     sync.RWMutex
	counts domstats.Counts
	gen    uint64
}

// New creates a status aggregator.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Counts returns the last computed counts.
func (s *Service) Counts() domstats.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts
}

// Refresh refetches the whole document set and recomputes the counts.
// On failure the previous counts are kept.
func (s *Service) Refresh(ctx context.Context) (domstats.Counts, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Warn("refresh stats failed", zap.Error(err))
		return s.Counts(), fmt.Errorf("refresh stats: %w", err)
	}
	counts := domstats.Reduce(docs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.counts = counts
	}
	return s.counts, nil
}

package ocrdesk

import (
	"context"
	"time"
)

// Stats aggregates every document of the user by OCR status.
type Stats struct {
	svc statsUseCase
	obs *observer
}

// Counts returns the last computed counts.
func (s *Stats) Counts() Counts { return countsFromDomain(s.svc.Counts()) }

// Refresh recomputes the counts. On failure the previous counts are kept
// and returned alongside the error.
func (s *Stats) Refresh(ctx context.Context) (_ Counts, err error) {
	defer func(start time.Time) { s.obs.observe("stats.refresh", start, err) }(time.Now())
	c, err := s.svc.Refresh(ctx)
	return countsFromDomain(c), err
}

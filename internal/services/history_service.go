package services

import (
	"context"
	"time"

	"github.com/hydroeval/hydroeval/internal/history"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/utils"
)

// HistoryService answers queries over recorded analyses
type HistoryService struct {
	logger *logging.Logger
	store  history.Store
	now    func() time.Time
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(deps Dependencies) *HistoryService {
	return &HistoryService{logger: deps.Logger, store: deps.History, now: time.Now}
}

func (s *HistoryService) available() error {
	if s.store == nil {
		return NewServiceError(CodeHistoryUnavailable, "analysis history is disabled")
	}
	return nil
}

// History returns the most recent analyses. limit <= 0 selects the
// default; larger limits are capped.
func (s *HistoryService) History(ctx context.Context, limit int) ([]history.Record, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = utils.DefaultHistoryLimit
	}
	if limit > utils.MaxHistoryLimit {
		limit = utils.MaxHistoryLimit
	}

	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, NewServiceError(CodeInternal, err.Error())
	}
	return records, nil
}

// Stats summarizes all analyses, counting those of the last 24 hours as recent
func (s *HistoryService) Stats(ctx context.Context) (history.Stats, error) {
	if err := s.available(); err != nil {
		return history.Stats{}, err
	}
	stats, err := s.store.Stats(ctx, s.now().Add(-utils.StatsWindow))
	if err != nil {
		return history.Stats{}, NewServiceError(CodeInternal, err.Error())
	}
	return stats, nil
}

// Prune deletes analyses older than olderThan
func (s *HistoryService) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if err := s.available(); err != nil {
		return 0, err
	}
	removed, err := s.store.Prune(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, NewServiceError(CodeInternal, err.Error())
	}
	return removed, nil
}

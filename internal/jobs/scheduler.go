// Package jobs runs periodic maintenance: history retention and cache
// statistics logging.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/hydroeval/hydroeval/internal/logging"
	"github.com/hydroeval/hydroeval/internal/utils"
)

// Pruner deletes history records created before a cutoff
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// StatsReporter reports cache statistics as loggable key/value pairs
type StatsReporter interface {
	ReportStats(ctx context.Context) ([]interface{}, error)
}

// PruneRecorder is notified of how many records each prune removed
type PruneRecorder interface {
	AddHistoryPruned(n int64)
}

// Scheduler wraps a gocron scheduler
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *logging.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(logger *logging.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Scheduler{scheduler: s, logger: logger, now: time.Now}, nil
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler", "jobs", len(s.scheduler.Jobs()))
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// ScheduleHistoryPrune deletes records older than retention every interval
func (s *Scheduler) ScheduleHistoryPrune(interval, retention time.Duration, pruner Pruner, rec PruneRecorder) (string, error) {
	if interval <= 0 || retention <= 0 {
		return "", fmt.Errorf("history prune needs positive interval and retention, got %s and %s", interval, retention)
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.pruneHistory(retention, pruner, rec) }),
		gocron.WithName("history-prune"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create history prune job: %w", err)
	}
	return job.ID().String(), nil
}

func (s *Scheduler) pruneHistory(retention time.Duration, pruner Pruner, rec PruneRecorder) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.DefaultRequestTimeout)
	defer cancel()

	cutoff := s.now().Add(-retention)
	removed, err := pruner.Prune(ctx, cutoff)
	if err != nil {
		s.logger.Error("History prune failed", "error", err)
		return
	}
	if rec != nil {
		rec.AddHistoryPruned(removed)
	}
	s.logger.Info("History pruned", "removed", removed, "cutoff", cutoff.UTC().Format(time.RFC3339))
}

// ScheduleCacheStats logs cache statistics every interval
func (s *Scheduler) ScheduleCacheStats(interval time.Duration, reporter StatsReporter) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("cache stats interval must be positive, got %s", interval)
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.logCacheStats(reporter) }),
		gocron.WithName("cache-stats"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create cache stats job: %w", err)
	}
	return job.ID().String(), nil
}

func (s *Scheduler) logCacheStats(reporter StatsReporter) {
	ctx, cancel := context.WithTimeout(context.Background(), utils.ConnectTimeout)
	defer cancel()

	fields, err := reporter.ReportStats(ctx)
	if err != nil {
		s.logger.Warn("Cache stats unavailable", "error", err)
		return
	}
	s.logger.Info("Cache stats", fields...)
}

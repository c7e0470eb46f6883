package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stay_syncer/internal/domain"
)

// Syncer defines the interface for sync operations.
type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

// Scheduler triggers periodic sync runs. The registry updates slowly, so
// intervals are typically hours; manual runs through the HTTP trigger are
// tolerated because the service rejects overlaps itself.
type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(syncer Syncer, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	if _, err := s.syncer.Sync(ctx); err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			s.logger.Warn("previous sync still running, skipping tick")
			return
		}
		s.logger.Error("sync failed", "error", err)
	}
}

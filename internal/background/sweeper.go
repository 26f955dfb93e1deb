package background

import (
	"context"
	"log/slog"
	"time"
)

// SweepTarget is anything whose expired state can be swept
type SweepTarget interface {
	Sweep() int
}

// Sweeper periodically purges expired blocks and stale attempt windows
// from the failed-login store. The store already sweeps opportunistically
// on writes and block checks; this keeps memory bounded through quiet
// periods with no login traffic.
type Sweeper struct {
	store    SweepTarget
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSweeper creates a new sweeper
func NewSweeper(store SweepTarget, logger *slog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep task
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.store.Sweep(); removed > 0 {
				s.logger.Info("swept stale login attempt records",
					slog.Int("removed", removed))
			}
		case <-s.stopCh:
			s.logger.Info("sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("sweeper context cancelled")
			return
		}
	}
}

// Stop signals the sweeper to stop
func (s *Sweeper) Stop() {
	close(s.stopCh)
}

package borrowing

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper reruns the overdue sweep on a fixed cadence until its context is
// canceled. Reclassification is idempotent, so overlap with borrows and
// returns is harmless.
type Sweeper struct {
	svc   Service
	every time.Duration
	log   *slog.Logger
}

func NewSweeper(svc Service, every time.Duration, log *slog.Logger) *Sweeper {
	if every <= 0 {
		every = 10 * time.Minute
	}
	return &Sweeper{svc: svc, every: every, log: log}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flipped, err := s.svc.SweepOverdue(ctx, time.Now().UTC())
			if err != nil {
				s.log.Error("overdue sweep failed", "err", err)
				continue
			}
			if len(flipped) > 0 {
				s.log.Info("overdue sweep", "reclassified", len(flipped))
			}
		}
	}
}

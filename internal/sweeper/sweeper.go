package sweeper

import (
	"context"
	"log/slog"
	"time"
)

// reaper is the slice of MaintenanceCommands the sweeper drives.
type reaper interface {
	ReleaseExpiredHolds(ctx context.Context) (int, error)
	ExpireOverdueOrders(ctx context.Context) (int, error)
}

// Sweeper periodically reclaims expired holds and overdue pending orders.
// It is pure liveness: every transition it performs is re-checked
// transactionally, so running late or not at all never corrupts state.
type Sweeper struct {
	commands reaper
	interval time.Duration
	logger   *slog.Logger
}

func New(commands reaper, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		commands: commands,
		interval: interval,
		logger:   logger,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	released, err := s.commands.ReleaseExpiredHolds(ctx)
	if err != nil {
		s.logger.Error("failed to release expired holds", "error", err.Error())
	} else if released > 0 {
		s.logger.Info("released expired holds", "count", released)
	}

	expired, err := s.commands.ExpireOverdueOrders(ctx)
	if err != nil {
		s.logger.Error("failed to expire overdue orders", "error", err.Error())
	} else if expired > 0 {
		s.logger.Info("expired overdue orders", "count", expired)
	}
}

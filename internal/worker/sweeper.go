package worker

import (
	"context"
	"time"

	"shop-backend/internal/util"

	"go.uber.org/zap"
)

const sweepLockKey = "abandoned-order-sweep"

// AbandonedOrderSweeper deletes expired unpaid orders
type AbandonedOrderSweeper interface {
	SweepAbandoned(ctx context.Context, ttl time.Duration) (int, error)
}

// Locker is a cross-replica mutex
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// Sweeper periodically removes online-payment orders whose checkout was
// never completed. Only the replica holding the lock sweeps on a tick.
type Sweeper struct {
	orders   AbandonedOrderSweeper
	locker   Locker
	interval time.Duration
	ttl      time.Duration
	logger   *zap.Logger
}

// NewSweeper creates a sweeper. A zero ttl or interval disables it.
func NewSweeper(orders AbandonedOrderSweeper, locker Locker, interval, ttl time.Duration) *Sweeper {
	return &Sweeper{
		orders:   orders,
		locker:   locker,
		interval: interval,
		ttl:      ttl,
		logger:   util.GetLogger(),
	}
}

// Enabled reports whether the sweeper has work to do
func (s *Sweeper) Enabled() bool {
	return s.interval > 0 && s.ttl > 0
}

// Start runs sweeps until ctx is cancelled
func (s *Sweeper) Start(ctx context.Context) {
	if !s.Enabled() {
		s.logger.Info("Abandoned order sweeper disabled")
		return
	}

	s.logger.Info("Starting abandoned order sweeper",
		zap.Duration("interval", s.interval),
		zap.Duration("ttl", s.ttl))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping abandoned order sweeper")
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("Abandoned order sweep failed", zap.Error(err))
			}
		}
	}
}

// SweepOnce performs one sweep if the lock is free. It returns the number of
// orders removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	token, ok, err := s.locker.AcquireLock(ctx, sweepLockKey, s.interval)
	if err != nil {
		return 0, err
	}
	if !ok {
		s.logger.Debug("Sweep lock held elsewhere, skipping")
		return 0, nil
	}
	defer func() {
		if err := s.locker.ReleaseLock(ctx, sweepLockKey, token); err != nil {
			s.logger.Warn("Failed to release sweep lock", zap.Error(err))
		}
	}()

	return s.orders.SweepAbandoned(ctx, s.ttl)
}

package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/dongdong-admin/internal/metrics"
)

// StalePruner removes credential slots that have not been written since before.
type StalePruner interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// SessionJanitor periodically prunes credential slots of abandoned sessions.
type SessionJanitor struct {
	pruner   StalePruner
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewSessionJanitor creates a janitor that removes slots idle for longer than ttl,
// checking every interval.
func NewSessionJanitor(pruner StalePruner, ttl, interval time.Duration) *SessionJanitor {
	return &SessionJanitor{
		pruner:   pruner,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs an immediate sweep and then one per interval. It blocks until
// the context is canceled.
func (j *SessionJanitor) Start(ctx context.Context) {
	j.Sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep performs one pruning pass and returns the number of slots removed.
func (j *SessionJanitor) Sweep(ctx context.Context) int64 {
	cutoff := j.now().Add(-j.ttl)
	n, err := j.pruner.DeleteStale(ctx, cutoff)
	if err != nil {
		slog.Error("session sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		metrics.SlotsPrunedTotal.Add(float64(n))
		slog.Info("pruned idle sessions", "count", n)
	}
	return n
}

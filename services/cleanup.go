package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lottery_bot/logger"
)

// CleanupStalePending drops in-memory pending flags older than ttl until ctx is done.
func CleanupStalePending(ctx context.Context, store *MemoryPendingStore, ttl time.Duration) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Expire(ttl); n > 0 {
				logger.Info("expired stale pending links", zap.Int("count", n))
			}
		}
	}
}

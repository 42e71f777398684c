package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// PendingStore remembers which users are expected to send a wallet address next.
// Every method is atomic per user.
type PendingStore interface {
	Set(ctx context.Context, userID int64) error
	// Take clears the flag and reports whether it was set.
	Take(ctx context.Context, userID int64) (bool, error)
	Clear(ctx context.Context, userID int64) error
}

type MemoryPendingStore struct {
	mu      sync.Mutex
	pending map[int64]time.Time
	now     func() time.Time
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{
		pending: make(map[int64]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryPendingStore) Set(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = s.now()
	return nil
}

func (s *MemoryPendingStore) Take(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID]
	delete(s.pending, userID)
	return ok, nil
}

func (s *MemoryPendingStore) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, userID)
	return nil
}

// Expire drops flags set before now-ttl and returns how many were dropped.
func (s *MemoryPendingStore) Expire(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	expired := 0
	for userID, since := range s.pending {
		if since.Before(cutoff) {
			delete(s.pending, userID)
			expired++
		}
	}
	return expired
}

func (s *MemoryPendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

const pendingKeyPrefix = "lottery:pending:"

// RedisPendingStore keeps flags in Redis so they survive restarts. Expiry is handled by key TTL.
type RedisPendingStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPendingStore(client *redis.Client, ttl time.Duration) *RedisPendingStore {
	return &RedisPendingStore{client: client, ttl: ttl}
}

func pendingKey(userID int64) string {
	return fmt.Sprintf("%s%d", pendingKeyPrefix, userID)
}

func (s *RedisPendingStore) Set(ctx context.Context, userID int64) error {
	return s.client.Set(ctx, pendingKey(userID), 1, s.ttl).Err()
}

func (s *RedisPendingStore) Take(ctx context.Context, userID int64) (bool, error) {
	n, err := s.client.Del(ctx, pendingKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisPendingStore) Clear(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, pendingKey(userID)).Err()
}

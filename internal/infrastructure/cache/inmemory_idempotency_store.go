package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Ethics03/shiv-odoo/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed keys in process memory with
// TTL expiry. Suitable for single-instance deployments and tests; use
// the Redis store when running more than one replica.
type InMemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	done    chan struct{}
	once    sync.Once
}

// NewInMemoryIdempotencyStore creates a store with a background sweeper
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// MarkProcessed records the key, returning false if already present
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.entries[key]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	s.entries[key] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether the key is recorded and unexpired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiry, ok := s.entries[key]
	return ok && time.Now().Before(expiry), nil
}

// Close stops the sweeper
func (s *InMemoryIdempotencyStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *InMemoryIdempotencyStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, expiry := range s.entries {
				if now.After(expiry) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

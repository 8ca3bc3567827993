package cache

import (
	"context"
	"sync"
	"time"
)

// SyncStateStore records the last successful run of each sync kind so
// incremental pulls and status endpoints know where the mirror stands.
type SyncStateStore interface {
	// SetLastSync records a successful run of the given sync kind.
	SetLastSync(ctx context.Context, kind string, at time.Time) error
	// LastSync returns the recorded run time, or a zero time when none exists.
	LastSync(ctx context.Context, kind string) (time.Time, error)
}

// InMemorySyncStateStore implements SyncStateStore with a process-local map.
// State is lost on restart, which only costs one full (non-incremental) sync.
type InMemorySyncStateStore struct {
	mu    sync.RWMutex
	state map[string]time.Time
}

// NewInMemorySyncStateStore creates a new in-memory sync state store.
func NewInMemorySyncStateStore() *InMemorySyncStateStore {
	return &InMemorySyncStateStore{state: make(map[string]time.Time)}
}

// SetLastSync records a successful run of the given sync kind.
func (s *InMemorySyncStateStore) SetLastSync(_ context.Context, kind string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[kind] = at
	return nil
}

// LastSync returns the recorded run time, or a zero time when none exists.
func (s *InMemorySyncStateStore) LastSync(_ context.Context, kind string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[kind], nil
}

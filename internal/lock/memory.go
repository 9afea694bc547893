package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with the same contract as RedisStore.
// It backs tests and single-binary development runs; it provides no
// cross-process exclusion.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	owner     string
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-memory lock store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Acquire creates the key if absent or expired and reports whether this call
// created it.
func (s *MemoryStore) Acquire(_ context.Context, key, owner string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok && e.expiresAt.After(now) {
		return false, nil
	}
	s.entries[key] = memoryEntry{owner: owner, expiresAt: now.Add(ttl)}
	return true, nil
}

// Release deletes the key; absent keys are a no-op.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Owner returns the current live holder of key, if any. Used by tests.
func (s *MemoryStore) Owner(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || !e.expiresAt.After(s.now()) {
		return "", false
	}
	return e.owner, true
}

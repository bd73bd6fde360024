package cache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. It backs the CLI's --no-cache mode
// and test fixtures.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

// Get returns the stored bytes for key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	value, ok := s.items[key]
	s.mu.RUnlock()
	return value, ok
}

// Set inserts or updates key.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

// Size returns current number of items.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	sz := len(s.items)
	s.mu.RUnlock()
	return sz
}

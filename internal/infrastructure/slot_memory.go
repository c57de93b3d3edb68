package infrastructure

import (
	"sync"

	"github.com/yourusername/streamfetch-go/internal/domain"
)

// MemorySlotStore is a process-local SlotStore; contents are lost on exit
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlotStore creates an empty store
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string]string)}
}

// Get returns the value stored under key
func (s *MemorySlotStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[key]
	if !ok {
		return "", domain.ErrSlotNotFound
	}
	return value, nil
}

// Put replaces the value stored under key
func (s *MemorySlotStore) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = value
	return nil
}

// Ping always succeeds
func (s *MemorySlotStore) Ping() error {
	return nil
}

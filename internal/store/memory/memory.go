package memory

import (
	"context"
	"sync"

	"cafepos/backend/internal/store"
)

// Store keeps slots in process memory. It is the default backend and the one
// the service tests run against.
type Store struct {
	mu    sync.RWMutex
	slots map[string]string
}

func New() *Store {
	return &Store{slots: make(map[string]string)}
}

// NewWithSlots returns a store pre-populated with the given slot values.
func NewWithSlots(slots map[string]string) *Store {
	s := New()
	for key, value := range slots {
		s.slots[key] = value
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, store.ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[key]
	return value, ok, nil
}

func (s *Store) Set(_ context.Context, key string, value string) error {
	if key == "" {
		return store.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = value
	return nil
}

func (s *Store) Close() error {
	return nil
}

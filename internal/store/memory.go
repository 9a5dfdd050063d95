package store

import (
	"sync"
)

// MemoryStore is a concurrency-safe in-memory implementation of Store.
// Values do not survive the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	notifier
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set replaces the value stored under key.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()

	s.notify(key, value)
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	s.notify(key, nil)
	return nil
}

// Subscribe implements Store.
func (s *MemoryStore) Subscribe(key string, fn func([]byte)) func() {
	return s.subscribe(key, fn)
}

package storage

import (
	"context"
	"sync"
)

// memoryStore is an in-process Store used for tests and local runs without a
// database. A single mutex serializes all updates, which trivially satisfies
// the per-key atomicity contract.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]string
}

// NewMemoryStore creates an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.records[key]
	return value, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *memoryStore) Update(_ context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.records[key]
	next, write, err := fn(current, exists)
	if err != nil {
		return err
	}
	if write {
		s.records[key] = next
	}
	return nil
}

func (s *memoryStore) All(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]string, len(s.records))
	for k, v := range s.records {
		snapshot[k] = v
	}
	return snapshot, nil
}

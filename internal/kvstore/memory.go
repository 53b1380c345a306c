package kvstore

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
	indexes map[string]map[string]struct{}
}

// NewMemory creates a concurrency-safe in-memory store used in tests and as
// the development fallback when no durable backend is configured.
func NewMemory() Store {
	return &memoryStore{
		records: make(map[string][]byte),
		indexes: make(map[string]map[string]struct{}),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.records[key] = stored
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *memoryStore) AddToIndex(_ context.Context, indexKey, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[indexKey]
	if !ok {
		idx = make(map[string]struct{})
		s.indexes[indexKey] = idx
	}
	idx[member] = struct{}{}
	return nil
}

func (s *memoryStore) RemoveFromIndex(_ context.Context, indexKey, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.indexes[indexKey]; ok {
		delete(idx, member)
	}
	return nil
}

func (s *memoryStore) ListIndex(_ context.Context, indexKey string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[indexKey]
	if !ok {
		return nil, nil
	}
	members := make([]string, 0, len(idx))
	for member := range idx {
		members = append(members, member)
	}
	return members, nil
}

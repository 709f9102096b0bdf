package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps documents in process memory
type MemoryStore struct {
	docs map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStore creates a new in-memory document store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
	}
}

// Get retrieves a copy of the document stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, exists := s.docs[key]
	if !exists {
		return nil, ErrNotFound
	}
	return slices.Clone(doc), nil
}

// Put overwrites the document stored under key
func (s *MemoryStore) Put(ctx context.Context, key string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = slices.Clone(doc)
	return nil
}

package memory

import (
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"sync"
)

// KeyValueStore is an in-process repository.KeyValueStore. It backs tests and
// the "memory" database driver; nothing survives a restart.
type KeyValueStore struct {
	mu      sync.Mutex
	entries map[string]repository.Entry
}

var _ repository.KeyValueStore = (*KeyValueStore)(nil)

func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{entries: make(map[string]repository.Entry)}
}

func (s *KeyValueStore) Get(_ context.Context, key string) (repository.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return repository.Entry{}, repository.ErrNotFound
	}
	return repository.Entry{Value: clone(e.Value), Revision: e.Revision}, nil // callers never share the stored slice
}

func (s *KeyValueStore) CompareAndSwap(_ context.Context, key string, expected int64, value []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A missing key has revision 0, so expected 0 means "create"
	current := s.entries[key].Revision
	if current != expected {
		return 0, repository.ErrRevisionConflict
	}
	next := current + 1
	s.entries[key] = repository.Entry{Value: clone(value), Revision: next}
	return next, nil
}

func (s *KeyValueStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return repository.ErrNotFound
	}
	delete(s.entries, key)
	return nil
}

// Len reports how many keys are stored.
func (s *KeyValueStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

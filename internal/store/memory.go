package store

import (
	"context"
	"sync"

	"github.com/Iron-Ham/screencoord/internal/item"
)

// MemoryStore keeps the document in memory. It is used for dry runs and
// tests.
type MemoryStore struct {
	mu    sync.Mutex
	items []*item.Item
	saves int
	// FailSave, when set, is returned by Save.
	FailSave error
	// SaveErrors are returned by the next saves, one per call, before
	// FailSave is consulted.
	SaveErrors []error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(items ...*item.Item) *MemoryStore {
	return &MemoryStore{items: item.CloneList(items)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context) ([]*item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return item.CloneList(s.items), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, items []*item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.SaveErrors) > 0 {
		err := s.SaveErrors[0]
		s.SaveErrors = s.SaveErrors[1:]
		return err
	}
	if s.FailSave != nil {
		return s.FailSave
	}
	s.items = item.CloneList(items)
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Backend implements Store.
func (s *MemoryStore) Backend() string { return BackendMemory }

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

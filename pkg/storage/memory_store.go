package storage

import (
	"context"
	"sync"

	"github.com/goliatone/go-settings/internal/tree"
)

// MemoryStore is an in-memory Store intended for tests and embedding. Values
// are deep copied in both directions so callers never share maps with it.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]map[string]any
	writes  int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]map[string]any{}}
}

func (s *MemoryStore) GetData(_ context.Context, key string) (map[string]any, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return tree.CloneMap(record), true, nil
}

func (s *MemoryStore) SetData(_ context.Context, key string, value map[string]any) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	if s.records == nil {
		s.records = map[string]map[string]any{}
	}
	s.records[key] = tree.CloneMap(value)
	s.writes++
	s.mu.Unlock()
	return nil
}

// Writes reports how many SetData calls succeeded.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

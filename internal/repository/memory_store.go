package repository

import (
	"context"
	"sync"
)

// MemoryStore is a process-local DocumentStore.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	ids     map[string]struct{}
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[string]struct{})}
}

func (s *MemoryStore) Add(_ context.Context, id, text string, metadata Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[id]; exists {
		return ErrDuplicateID
	}
	s.ids[id] = struct{}{}
	s.records = append(s.records, Record{ID: id, Text: text, Metadata: metadata.Clone()})
	return nil
}

func (s *MemoryStore) Get(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

func (s *MemoryStore) Query(_ context.Context, text string, k int, filter Metadata) ([]Match, error) {
	s.mu.RLock()
	records := s.snapshot()
	s.mu.RUnlock()
	return rankRecords(records, text, k, filter), nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) snapshot() []Record {
	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = Record{ID: rec.ID, Text: rec.Text, Metadata: rec.Metadata.Clone()}
	}
	return out
}

package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/acervohq/acervo/internal/types"
)

// MemoryStore implements Store with in-memory maps. Intended for tests and
// demo mode, no database required.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.Record
	schema  json.RawMessage
	filters map[string]types.SavedFilter
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]types.Record),
		filters: make(map[string]types.SavedFilter),
	}
}

func (s *MemoryStore) LoadRecords(_ context.Context) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SaveRecord(_ context.Context, record types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = record
	return nil
}

func (s *MemoryStore) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) LoadSchema(_ context.Context) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema, nil
}

func (s *MemoryStore) SaveSchema(_ context.Context, sc types.Schema) error {
	body, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = body
	return nil
}

// SeedSchemaJSON stores a raw schema body verbatim. Tests use it to plant
// legacy-format payloads.
func (s *MemoryStore) SeedSchemaJSON(raw json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schema = raw
}

func (s *MemoryStore) LoadFilters(_ context.Context) ([]types.SavedFilter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.SavedFilter, 0, len(s.filters))
	for _, f := range s.filters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SaveFilter(_ context.Context, f types.SavedFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[f.ID] = f
	return nil
}

func (s *MemoryStore) DeleteFilter(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.filters, id)
	return nil
}

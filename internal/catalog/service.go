// Package catalog owns the in-memory catalog state: the normalized schema,
// the record set, and the saved filters. All mutations are optimistic:
// memory is updated first, an event is published, and persistence happens in
// a detached goroutine whose failure is logged but never rolled back. Last
// write wins across concurrent editors; there is no versioning.
package catalog

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/acervohq/acervo/internal/aggregate"
	"github.com/acervohq/acervo/internal/event"
	"github.com/acervohq/acervo/internal/schema"
	"github.com/acervohq/acervo/internal/store"
	"github.com/acervohq/acervo/internal/types"
	"github.com/acervohq/acervo/internal/view"
)

// Service is the catalog state holder. Safe for concurrent use.
type Service struct {
	mu      sync.RWMutex
	schema  types.Schema
	records []types.Record
	filters []types.SavedFilter

	store store.Store
	bus   event.Publisher
}

// New creates a Service on the given store and publisher. Call Load before
// serving requests.
func New(st store.Store, bus event.Publisher) *Service {
	if bus == nil {
		bus = event.NopPublisher{}
	}
	return &Service{store: st, bus: bus, schema: schema.Default()}
}

// Load pulls records, schema, and filters from the store. The stored schema
// passes through the normalizer before first use and the normalized form is
// written back so legacy shapes are migrated exactly once.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return err
	}
	raw, err := s.store.LoadSchema(ctx)
	if err != nil {
		return err
	}
	filters, err := s.store.LoadFilters(ctx)
	if err != nil {
		return err
	}

	normalized := schema.NormalizeRaw(raw)

	s.mu.Lock()
	s.records = records
	s.schema = normalized
	s.filters = filters
	s.mu.Unlock()

	if err := s.store.SaveSchema(ctx, normalized); err != nil {
		log.Printf("catalog: persisting normalized schema: %v", err)
	}
	return nil
}

// persist runs a store call in a detached goroutine. Deliberately
// fire-and-forget: a slow or failed store never blocks or reverts the
// optimistic in-memory state.
func (s *Service) persist(what string, fn func(context.Context) error) {
	go func() {
		if err := fn(context.Background()); err != nil {
			log.Printf("catalog: persisting %s: %v", what, err)
		}
	}()
}

// ── Schema ───────────────────────────────────────────────────────────────

// Schema returns a deep copy of the current schema.
func (s *Service) Schema() types.Schema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return schema.Clone(s.schema)
}

// ApplySchemaOp runs a pure schema update under the write lock, persists the
// result, and publishes a schema_updated event tagged with the operation
// name.
func (s *Service) ApplySchemaOp(ctx context.Context, operation string, fn func(types.Schema) types.Schema) types.Schema {
	s.mu.Lock()
	s.schema = fn(s.schema)
	updated := schema.Clone(s.schema)
	s.mu.Unlock()

	s.persist("schema", func(ctx context.Context) error {
		return s.store.SaveSchema(ctx, updated)
	})
	s.bus.Publish(ctx, event.NewSchemaUpdated(operation, len(updated.FieldBank), len(updated.Tabs)))
	return updated
}

// ReplaceSchema swaps in a full schema value, normalizing it first.
func (s *Service) ReplaceSchema(ctx context.Context, next types.Schema) types.Schema {
	return s.ApplySchemaOp(ctx, "replace", func(types.Schema) types.Schema {
		return schema.Normalize(next)
	})
}

// ── Records ──────────────────────────────────────────────────────────────

// Records returns the record set in insertion order.
func (s *Service) Records() []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Record returns one record by id.
func (s *Service) Record(id string) (types.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return types.Record{}, false
}

// SaveRecord upserts a record. An empty id creates a new record with a
// generated id. Data is stored as given; records are not schema-validated
// on write.
func (s *Service) SaveRecord(ctx context.Context, id string, data map[string]any) types.Record {
	if id == "" {
		id = uuid.New().String()
	}
	if data == nil {
		data = make(map[string]any)
	}
	rec := types.Record{ID: id, Data: data}

	s.mu.Lock()
	created := true
	for i, r := range s.records {
		if r.ID == id {
			s.records[i] = rec
			created = false
			break
		}
	}
	if created {
		s.records = append(s.records, rec)
	}
	s.mu.Unlock()

	s.persist("record "+id, func(ctx context.Context) error {
		return s.store.SaveRecord(ctx, rec)
	})
	s.bus.Publish(ctx, event.NewRecordSaved(id, created))
	return rec
}

// DeleteRecord removes a record. Unknown ids report false.
func (s *Service) DeleteRecord(ctx context.Context, id string) bool {
	s.mu.Lock()
	found := false
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return false
	}

	s.persist("record deletion "+id, func(ctx context.Context) error {
		return s.store.DeleteRecord(ctx, id)
	})
	s.bus.Publish(ctx, event.NewRecordDeleted(id))
	return true
}

// ── Saved filters ────────────────────────────────────────────────────────

// Filters returns all saved filters.
func (s *Service) Filters() []types.SavedFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.SavedFilter, len(s.filters))
	copy(out, s.filters)
	return out
}

// FilterByID returns one saved filter.
func (s *Service) FilterByID(id string) (types.SavedFilter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.filters {
		if f.ID == id {
			return f, true
		}
	}
	return types.SavedFilter{}, false
}

// SaveFilter upserts a saved filter, generating an id when absent.
func (s *Service) SaveFilter(ctx context.Context, f types.SavedFilter) types.SavedFilter {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.GlobalLogic == "" {
		f.GlobalLogic = types.LogicAnd
	}

	s.mu.Lock()
	replaced := false
	for i, existing := range s.filters {
		if existing.ID == f.ID {
			s.filters[i] = f
			replaced = true
			break
		}
	}
	if !replaced {
		s.filters = append(s.filters, f)
	}
	s.mu.Unlock()

	s.persist("filter "+f.ID, func(ctx context.Context) error {
		return s.store.SaveFilter(ctx, f)
	})
	s.bus.Publish(ctx, event.NewFilterSaved(f.ID, f.Name))
	return f
}

// DeleteFilter removes a saved filter. Unknown ids report false.
func (s *Service) DeleteFilter(ctx context.Context, id string) bool {
	s.mu.Lock()
	found := false
	for i, f := range s.filters {
		if f.ID == id {
			s.filters = append(s.filters[:i], s.filters[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return false
	}

	s.persist("filter deletion "+id, func(ctx context.Context) error {
		return s.store.DeleteFilter(ctx, id)
	})
	s.bus.Publish(ctx, event.NewFilterDeleted(id))
	return true
}

// ── Derived outputs ──────────────────────────────────────────────────────

// Query runs the view pipeline over the current state. An unknown filter id
// projects the unfiltered set; a stale saved view is not an error.
func (s *Service) Query(filterID string, req view.Request) view.Result {
	s.mu.RLock()
	records := make([]types.Record, len(s.records))
	copy(records, s.records)
	sc := schema.Clone(s.schema)
	if filterID != "" {
		for _, f := range s.filters {
			if f.ID == filterID {
				active := f
				req.Filter = &active
				break
			}
		}
	}
	s.mu.RUnlock()

	return view.Project(records, sc, req)
}

// Dashboard recomputes the aggregation series for every BI field.
func (s *Service) Dashboard() map[string]types.Series {
	s.mu.RLock()
	records := make([]types.Record, len(s.records))
	copy(records, s.records)
	sc := schema.Clone(s.schema)
	s.mu.RUnlock()

	return aggregate.Build(records, sc)
}

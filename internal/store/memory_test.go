package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/acervohq/acervo/internal/types"
)

func TestMemoryStore_RecordsSortedByID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.SaveRecord(ctx, types.Record{ID: "c", Data: map[string]any{}})
	s.SaveRecord(ctx, types.Record{ID: "a", Data: map[string]any{}})
	s.SaveRecord(ctx, types.Record{ID: "b", Data: map[string]any{}})

	got, err := s.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != 3 || got[0].ID != "a" || got[2].ID != "c" {
		t.Errorf("records = %+v", got)
	}

	s.DeleteRecord(ctx, "b")
	got, _ = s.LoadRecords(ctx)
	if len(got) != 2 {
		t.Errorf("records = %d after delete", len(got))
	}
}

func TestMemoryStore_SchemaRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	raw, err := s.LoadSchema(ctx)
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	if raw != nil {
		t.Errorf("raw = %s, want nil before first save", raw)
	}

	if err := s.SaveSchema(ctx, types.Schema{Tabs: []types.Tab{{ID: "t1", Label: "A"}}}); err != nil {
		t.Fatalf("SaveSchema: %v", err)
	}
	raw, _ = s.LoadSchema(ctx)
	var got types.Schema
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(got.Tabs) != 1 || got.Tabs[0].ID != "t1" {
		t.Errorf("schema = %+v", got)
	}
}

func TestMemoryStore_SeedSchemaJSON(t *testing.T) {
	s := NewMemoryStore()
	planted := json.RawMessage(`{"tabs": []}`)
	s.SeedSchemaJSON(planted)

	raw, _ := s.LoadSchema(context.Background())
	if string(raw) != string(planted) {
		t.Errorf("raw = %s", raw)
	}
}

func TestMemoryStore_Filters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.SaveFilter(ctx, types.SavedFilter{ID: "f2", Name: "B"})
	s.SaveFilter(ctx, types.SavedFilter{ID: "f1", Name: "A"})

	got, err := s.LoadFilters(ctx)
	if err != nil {
		t.Fatalf("LoadFilters: %v", err)
	}
	if len(got) != 2 || got[0].ID != "f1" {
		t.Errorf("filters = %+v", got)
	}

	s.DeleteFilter(ctx, "f1")
	got, _ = s.LoadFilters(ctx)
	if len(got) != 1 || got[0].ID != "f2" {
		t.Errorf("filters = %+v after delete", got)
	}
}

package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/acervohq/acervo/internal/event"
	"github.com/acervohq/acervo/internal/schema"
	"github.com/acervohq/acervo/internal/store"
	"github.com/acervohq/acervo/internal/types"
	"github.com/acervohq/acervo/internal/view"
)

// capturePublisher records published events synchronously.
type capturePublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, evt event.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *capturePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *capturePublisher) {
	t.Helper()
	st := store.NewMemoryStore()
	pub := &capturePublisher{}
	svc := New(st, pub)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc, st, pub
}

func TestNew_NilPublisherDefaultsToNop(t *testing.T) {
	svc := New(store.NewMemoryStore(), nil)
	// Must not panic.
	svc.SaveRecord(context.Background(), "r1", nil)
}

func TestLoad_EmptyStoreYieldsDefaultSchema(t *testing.T) {
	svc, st, _ := newTestService(t)

	s := svc.Schema()
	if len(s.Tabs) != 1 || s.Tabs[0].ID != "tab-geral" {
		t.Errorf("tabs = %+v", s.Tabs)
	}
	if len(s.FieldBank) == 0 {
		t.Error("system fields missing")
	}

	// Load writes the normalized schema back synchronously.
	raw, _ := st.LoadSchema(context.Background())
	if len(raw) == 0 {
		t.Fatal("normalized schema not persisted")
	}
}

func TestLoad_MigratesLegacySchemaOnce(t *testing.T) {
	st := store.NewMemoryStore()
	st.SeedSchemaJSON(json.RawMessage(`{"tabs": [
		{"id": "t1", "label": "Dados", "icon": "book", "fields": [
			{"id": "genero", "label": "Gênero", "type": "single_select"}
		]}
	]}`))
	svc := New(st, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := svc.Schema()
	if _, ok := schema.FieldByID(s, "genero"); !ok {
		t.Fatal("legacy field not migrated into the bank")
	}
	if s.Tabs[0].Rows[0].Cells[0].FieldID != "genero" {
		t.Errorf("layout = %+v", s.Tabs[0].Rows)
	}

	// The store now holds the current format; a reload must not re-migrate.
	raw, _ := st.LoadSchema(context.Background())
	var current types.Schema
	if err := json.Unmarshal(raw, &current); err != nil {
		t.Fatalf("persisted schema not current format: %v", err)
	}
	if len(current.FieldBank) == 0 {
		t.Error("persisted schema has no field bank")
	}
}

func TestSaveRecord_CreateAndUpdate(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	rec := svc.SaveRecord(ctx, "", map[string]any{"titulo": "Nova Obra"})
	if rec.ID == "" {
		t.Fatal("expected generated id")
	}

	svc.SaveRecord(ctx, rec.ID, map[string]any{"titulo": "Obra Revisada"})
	got, ok := svc.Record(rec.ID)
	if !ok {
		t.Fatal("record missing")
	}
	if got.Data["titulo"] != "Obra Revisada" {
		t.Errorf("data = %+v", got.Data)
	}
	if n := len(svc.Records()); n != 1 {
		t.Errorf("records = %d, want upsert", n)
	}

	evts := pub.eventTypes()
	if len(evts) != 2 || evts[0] != "record_saved" || evts[1] != "record_saved" {
		t.Errorf("events = %v", evts)
	}
}

func TestDeleteRecord(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	svc.SaveRecord(ctx, "r1", nil)
	if !svc.DeleteRecord(ctx, "r1") {
		t.Error("delete reported false for existing record")
	}
	if svc.DeleteRecord(ctx, "r1") {
		t.Error("delete reported true for missing record")
	}
	if _, ok := svc.Record("r1"); ok {
		t.Error("record still present")
	}

	evts := pub.eventTypes()
	if evts[len(evts)-1] != "record_deleted" {
		t.Errorf("events = %v", evts)
	}
}

func TestApplySchemaOp_PublishesSchemaUpdated(t *testing.T) {
	svc, _, pub := newTestService(t)

	updated := svc.ApplySchemaOp(context.Background(), "add_tab", func(s types.Schema) types.Schema {
		return schema.AddTab(s, "Financeiro", "coin")
	})
	if len(updated.Tabs) != 2 {
		t.Fatalf("tabs = %d", len(updated.Tabs))
	}

	evts := pub.eventTypes()
	if evts[len(evts)-1] != "schema_updated" {
		t.Errorf("events = %v", evts)
	}

	var payload event.SchemaUpdatedPayload
	if err := json.Unmarshal(pub.events[len(pub.events)-1].Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Operation != "add_tab" || payload.TabCount != 2 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestReplaceSchema_Normalizes(t *testing.T) {
	svc, _, _ := newTestService(t)

	got := svc.ReplaceSchema(context.Background(), types.Schema{})
	if len(got.Tabs) != 1 {
		t.Errorf("tabs = %+v, want default tab injected", got.Tabs)
	}
	if len(got.FieldBank) == 0 {
		t.Error("system fields missing after replace")
	}
}

func TestSchema_ReturnsCopy(t *testing.T) {
	svc, _, _ := newTestService(t)

	s := svc.Schema()
	s.Tabs[0].Label = "mutated"
	if svc.Schema().Tabs[0].Label == "mutated" {
		t.Error("Schema() leaked internal state")
	}
}

func TestSaveFilter_DefaultsAndUpsert(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	f := svc.SaveFilter(ctx, types.SavedFilter{Name: "Meu filtro"})
	if f.ID == "" {
		t.Fatal("expected generated id")
	}
	if f.GlobalLogic != types.LogicAnd {
		t.Errorf("GlobalLogic = %q, want AND default", f.GlobalLogic)
	}

	f.Name = "Renomeado"
	svc.SaveFilter(ctx, f)
	got, ok := svc.FilterByID(f.ID)
	if !ok || got.Name != "Renomeado" {
		t.Errorf("filter = %+v", got)
	}
	if n := len(svc.Filters()); n != 1 {
		t.Errorf("filters = %d, want upsert", n)
	}
}

func TestDeleteFilter(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	f := svc.SaveFilter(ctx, types.SavedFilter{Name: "Temp"})
	if !svc.DeleteFilter(ctx, f.ID) {
		t.Error("delete reported false")
	}
	if svc.DeleteFilter(ctx, f.ID) {
		t.Error("second delete reported true")
	}
}

func TestQuery_ResolvesSavedFilter(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	svc.SaveRecord(ctx, "a", map[string]any{"status_pagamento": "Pago"})
	svc.SaveRecord(ctx, "b", map[string]any{"status_pagamento": "Em Aberto"})

	f := svc.SaveFilter(ctx, types.SavedFilter{
		Name:        "Pendentes",
		GlobalLogic: types.LogicAnd,
		Blocks: []types.FilterBlock{{ID: "b1", Logic: types.LogicAnd, Rules: []types.FilterRule{
			{FieldID: "status_pagamento", Operator: "equals", Value: "Em Aberto"},
		}}},
	})

	res := svc.Query(f.ID, view.Request{})
	if res.TotalCount != 1 || res.Records[0].ID != "b" {
		t.Errorf("result = %+v", res.Records)
	}

	// An unknown filter id projects the unfiltered set.
	res = svc.Query("ghost", view.Request{})
	if res.TotalCount != 2 {
		t.Errorf("TotalCount = %d", res.TotalCount)
	}
}

func TestDashboard_UsesBIFields(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	svc.SaveRecord(ctx, "a", map[string]any{"status_pagamento": "Pago"})
	svc.SaveRecord(ctx, "b", map[string]any{"status_pagamento": "Em Aberto"})

	out := svc.Dashboard()
	series, ok := out["status_pagamento"]
	if !ok {
		t.Fatalf("series = %v", out)
	}
	if series.Kind != "categorical" || len(series.Categories) != 2 {
		t.Errorf("series = %+v", series)
	}
}

func TestSeedDemo(t *testing.T) {
	svc, _, _ := newTestService(t)
	SeedDemo(context.Background(), svc)

	if n := len(svc.Records()); n != 4 {
		t.Fatalf("records = %d", n)
	}
	if _, ok := schema.FieldByID(svc.Schema(), "genero"); !ok {
		t.Error("genero field not added")
	}

	res := svc.Query("filtro-pendentes", view.Request{})
	if res.TotalCount != 2 {
		t.Errorf("pending works = %d, want 2", res.TotalCount)
	}

	out := svc.Dashboard()
	valor := out["valor_adiantamento"]
	if valor.GroupedBy != "status_pagamento" && valor.GroupedBy != "genero" {
		t.Errorf("GroupedBy = %q", valor.GroupedBy)
	}
	if valor.GrandTotal != 5400+2100+3350.5+1800 {
		t.Errorf("GrandTotal = %v", valor.GrandTotal)
	}
}

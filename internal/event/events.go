// Package event defines the domain events the catalog publishes after each
// in-memory mutation. Consumers (logging, live push) run in-process via the
// event bus; publication is best-effort and never blocks a mutation.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DomainEvent carries the canonical shape of every catalog event.
type DomainEvent struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Summary    string          `json:"summary"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

func newID() string { return uuid.New().String() }

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// RecordSavedPayload carries the id of a created or updated record.
type RecordSavedPayload struct {
	RecordID string `json:"record_id"`
	Created  bool   `json:"created"`
}

func NewRecordSaved(recordID string, created bool) DomainEvent {
	verb := "updated"
	if created {
		verb = "created"
	}
	return DomainEvent{
		ID:         newID(),
		EventType:  "record_saved",
		OccurredAt: time.Now(),
		Summary:    fmt.Sprintf("Record %s %s", recordID, verb),
		Payload:    mustJSON(RecordSavedPayload{RecordID: recordID, Created: created}),
	}
}

// RecordDeletedPayload carries the id of a deleted record.
type RecordDeletedPayload struct {
	RecordID string `json:"record_id"`
}

func NewRecordDeleted(recordID string) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "record_deleted",
		OccurredAt: time.Now(),
		Summary:    fmt.Sprintf("Record %s deleted", recordID),
		Payload:    mustJSON(RecordDeletedPayload{RecordID: recordID}),
	}
}

// SchemaUpdatedPayload summarises the schema after a layout or bank change.
type SchemaUpdatedPayload struct {
	Operation  string `json:"operation"`
	FieldCount int    `json:"field_count"`
	TabCount   int    `json:"tab_count"`
}

func NewSchemaUpdated(operation string, fieldCount, tabCount int) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "schema_updated",
		OccurredAt: time.Now(),
		Summary:    fmt.Sprintf("Schema changed by %s (%d fields, %d tabs)", operation, fieldCount, tabCount),
		Payload:    mustJSON(SchemaUpdatedPayload{Operation: operation, FieldCount: fieldCount, TabCount: tabCount}),
	}
}

// FilterSavedPayload carries the id of a created or updated saved filter.
type FilterSavedPayload struct {
	FilterID string `json:"filter_id"`
	Name     string `json:"name"`
}

func NewFilterSaved(filterID, name string) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "filter_saved",
		OccurredAt: time.Now(),
		Summary:    fmt.Sprintf("Filter %q saved", name),
		Payload:    mustJSON(FilterSavedPayload{FilterID: filterID, Name: name}),
	}
}

// FilterDeletedPayload carries the id of a deleted saved filter.
type FilterDeletedPayload struct {
	FilterID string `json:"filter_id"`
}

func NewFilterDeleted(filterID string) DomainEvent {
	return DomainEvent{
		ID:         newID(),
		EventType:  "filter_deleted",
		OccurredAt: time.Now(),
		Summary:    fmt.Sprintf("Filter %s deleted", filterID),
		Payload:    mustJSON(FilterDeletedPayload{FilterID: filterID}),
	}
}

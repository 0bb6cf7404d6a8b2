// Package store provides the persistence boundary for records, the schema,
// and saved filters. The catalog treats the store as an external
// collaborator: calls are best-effort and the in-memory state never waits on
// them or rolls back when they fail.
package store

import (
	"context"
	"encoding/json"

	"github.com/acervohq/acervo/internal/types"
)

// Store is the interface for loading and persisting catalog state.
//
// LoadSchema returns the raw stored JSON rather than a decoded Schema: the
// stored shape may be legacy-format or absent, and deciding that is the
// normalizer's job, not the store's.
type Store interface {
	LoadRecords(ctx context.Context) ([]types.Record, error)
	SaveRecord(ctx context.Context, record types.Record) error
	DeleteRecord(ctx context.Context, id string) error

	LoadSchema(ctx context.Context) (json.RawMessage, error)
	SaveSchema(ctx context.Context, s types.Schema) error

	LoadFilters(ctx context.Context) ([]types.SavedFilter, error)
	SaveFilter(ctx context.Context, f types.SavedFilter) error
	DeleteFilter(ctx context.Context, id string) error
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/acervohq/acervo/internal/types"
)

// SQLiteStore implements Store on a SQLite database via database/sql.
// Bodies are stored as JSON text; the schema table holds a single row.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore on an open database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CreateTables creates the catalog tables. Run during boot, before first use.
func (s *SQLiteStore) CreateTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			id   TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS schema (
			id   INTEGER PRIMARY KEY CHECK (id = 1),
			body TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS filters (
			id   TEXT PRIMARY KEY,
			body TEXT NOT NULL
		);
	`)
	return err
}

func (s *SQLiteStore) LoadRecords(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		var r types.Record
		var body []byte
		if err := rows.Scan(&r.ID, &body); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := json.Unmarshal(body, &r.Data); err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveRecord(ctx context.Context, record types.Record) error {
	body, err := json.Marshal(record.Data)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", record.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, data) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data
	`, record.ID, body)
	return err
}

func (s *SQLiteStore) DeleteRecord(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) LoadSchema(ctx context.Context) (json.RawMessage, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM schema WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying schema: %w", err)
	}
	return body, nil
}

func (s *SQLiteStore) SaveSchema(ctx context.Context, sc types.Schema) error {
	body, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO schema (id, body) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body
	`, body)
	return err
}

func (s *SQLiteStore) LoadFilters(ctx context.Context) ([]types.SavedFilter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM filters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying filters: %w", err)
	}
	defer rows.Close()

	var out []types.SavedFilter
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning filter: %w", err)
		}
		var f types.SavedFilter
		if err := json.Unmarshal(body, &f); err != nil {
			return nil, fmt.Errorf("decoding filter: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveFilter(ctx context.Context, f types.SavedFilter) error {
	body, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding filter %s: %w", f.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO filters (id, body) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body
	`, f.ID, body)
	return err
}

func (s *SQLiteStore) DeleteFilter(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM filters WHERE id = ?`, id)
	return err
}

// Package types provides the shared data model for the catalog: field
// definitions, the tab/row/cell layout, records, and saved filters. These
// structs are stored as JSON bodies in SQLite and exchanged verbatim over
// the HTTP API, so field tags are the wire format.
package types

import "encoding/json"

// FieldType enumerates the kinds a field definition can declare. The kind
// decides how record values are rendered, which operator family the filter
// engine selects, and how the aggregation engine groups values.
type FieldType string

const (
	FieldShortText        FieldType = "short_text"
	FieldLongText         FieldType = "long_text"
	FieldNumeric          FieldType = "numeric"
	FieldCurrency         FieldType = "currency"
	FieldPhone            FieldType = "phone"
	FieldISBN             FieldType = "isbn"
	FieldDOI              FieldType = "doi"
	FieldSingleSelect     FieldType = "single_select"
	FieldFileList         FieldType = "file_list"
	FieldAuthorsGroup     FieldType = "authors_group"
	FieldNegotiatorsGroup FieldType = "negotiators_group"
	FieldPaymentStatus    FieldType = "payment_status"
	FieldWorkflowTimeline FieldType = "workflow_timeline"
	FieldCoverImages      FieldType = "cover_images"
)

// IsNumeric reports whether values of this kind compare and sort as numbers.
func (t FieldType) IsNumeric() bool {
	return t == FieldNumeric || t == FieldCurrency
}

// FieldDefinition describes one entry in the field bank. Type is immutable
// in practice once records reference the field: changing it does not migrate
// stored record values.
type FieldDefinition struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Type      FieldType `json:"type"`
	IsVisible bool      `json:"isVisible"`
	IsBI      bool      `json:"isBI"`
	Options   []string  `json:"options,omitempty"` // single_select only
}

// UnmarshalJSON treats a field as visible unless isVisible is explicitly
// false. Stored schemas predate the flag and omit it.
func (f *FieldDefinition) UnmarshalJSON(b []byte) error {
	type alias FieldDefinition
	aux := struct {
		*alias
		IsVisible *bool `json:"isVisible"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	f.IsVisible = aux.IsVisible == nil || *aux.IsVisible
	return nil
}

// LayoutCell places one field-bank entry into the form. A field id may be
// referenced by at most one cell across the whole layout.
type LayoutCell struct {
	CellID  string `json:"cellId"`
	FieldID string `json:"fieldId"`
	ColSpan int    `json:"colSpan"` // one of 3, 4, 6, 8, 9, 12
}

// LayoutRow is an ordered run of cells. Rows may be empty.
type LayoutRow struct {
	Cells []LayoutCell `json:"cells"`
}

// Tab groups rows under a label. Icon is a stable symbolic tag; resolving it
// to a glyph is a presentation concern.
type Tab struct {
	ID    string      `json:"id"`
	Label string      `json:"label"`
	Icon  string      `json:"icon"`
	Rows  []LayoutRow `json:"rows"`
}

// Schema is the current-format schema: a field bank plus the tab layout that
// arranges bank entries into a form.
type Schema struct {
	FieldBank []FieldDefinition `json:"fieldBank"`
	Tabs      []Tab             `json:"tabs"`
}

// LegacyTab is the older tab shape that embedded its fields directly instead
// of referencing a field bank. Only the normalizer reads it.
type LegacyTab struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Icon   string            `json:"icon"`
	Fields []FieldDefinition `json:"fields"`
}

// Record is one catalog entry. Data maps field ids to values whose shape is
// determined by the field's declared type; records are never schema-validated
// on write, absent keys read as empty.
type Record struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Logic is the AND/OR combinator used across filter blocks and within a
// block across its rules.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// FilterRule compares one field against a value. Value2 is only meaningful
// for the between operator.
type FilterRule struct {
	FieldID  string `json:"fieldId"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Value2   string `json:"value2,omitempty"`
}

// FilterBlock combines its rules with Logic.
type FilterBlock struct {
	ID    string       `json:"id"`
	Logic Logic        `json:"logic"`
	Rules []FilterRule `json:"rules"`
}

// SavedFilter is a persisted, named boolean filter: blocks combined with
// GlobalLogic, rules within each block combined with the block's Logic.
type SavedFilter struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	GlobalLogic Logic         `json:"globalLogic"`
	Blocks      []FilterBlock `json:"blocks"`
}

// SortDirection orders a sorted view ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec names the sort key ("id" or a field id) and direction.
type SortSpec struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// CategoryCount is one slice of a categorical aggregation series.
type CategoryCount struct {
	Name    string  `json:"name"`
	Value   int     `json:"value"`
	Percent float64 `json:"percent"`
}

// NumericGroup is one group of a numeric aggregation series.
type NumericGroup struct {
	Name    string  `json:"name"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Series is the dashboard output for a single BI field. Exactly one of
// Categories or Groups is populated, per the field's kind.
type Series struct {
	FieldID      string          `json:"fieldId"`
	Label        string          `json:"label"`
	Kind         string          `json:"kind"` // "categorical" or "numeric"
	GroupedBy    string          `json:"groupedBy,omitempty"`
	Categories   []CategoryCount `json:"categories,omitempty"`
	Groups       []NumericGroup  `json:"groups,omitempty"`
	GrandTotal   float64         `json:"grandTotal,omitempty"`
	GrandAverage float64         `json:"grandAverage,omitempty"`
}

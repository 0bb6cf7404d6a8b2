// Package view projects the record set through the active filter, global
// search, sort, and pagination into what the table renders. Projection is a
// pure function recomputed on every call; there is no cache to invalidate.
package view

import (
	"sort"
	"strings"

	"github.com/acervohq/acervo/internal/filter"
	"github.com/acervohq/acervo/internal/schema"
	"github.com/acervohq/acervo/internal/types"
)

// Request carries the projection parameters.
type Request struct {
	Filter         *types.SavedFilter
	SearchTerm     string
	Sort           types.SortSpec
	VisibleColumns []string
	Page           int // 1-based
	PageSize       int
}

// Result is the projected, ordered, paginated slice plus its bookkeeping.
type Result struct {
	Records    []types.Record `json:"records"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
	Page       int            `json:"page"`
	Columns    []string       `json:"columns"`
}

// Project runs the pipeline: saved filter, then free-text search, then a
// stable sort, then a page slice.
func Project(records []types.Record, s types.Schema, req Request) Result {
	matched := make([]types.Record, 0, len(records))
	term := strings.ToLower(req.SearchTerm)
	for _, r := range records {
		if req.Filter != nil && !filter.Evaluate(*req.Filter, r, s) {
			continue
		}
		if term != "" && !matchesSearch(r, term) {
			continue
		}
		matched = append(matched, r)
	}

	sortRecords(matched, s, req.Sort)

	total := len(matched)
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	endIdx := start + pageSize
	if start > total {
		start = total
	}
	if endIdx > total {
		endIdx = total
	}

	return Result{
		Records:    matched[start:endIdx],
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		Columns:    EffectiveColumns(s, req.VisibleColumns),
	}
}

// matchesSearch reports whether the record id or any stringified data value
// contains the lower-cased term, independent of field type.
func matchesSearch(r types.Record, term string) bool {
	if strings.Contains(strings.ToLower(r.ID), term) {
		return true
	}
	for _, v := range r.Data {
		if strings.Contains(strings.ToLower(filter.Stringify(v)), term) {
			return true
		}
	}
	return false
}

// sortRecords orders records in place by the sort spec. Numeric and currency
// fields compare by coerced value, "id" by raw string, everything else by
// case-insensitive string. The sort is stable so equal keys keep their
// relative order.
func sortRecords(records []types.Record, s types.Schema, spec types.SortSpec) {
	if spec.Key == "" {
		return
	}

	var less func(a, b types.Record) bool
	switch {
	case spec.Key == "id":
		less = func(a, b types.Record) bool { return a.ID < b.ID }
	default:
		def, ok := schema.FieldByID(s, spec.Key)
		if ok && def.Type.IsNumeric() {
			less = func(a, b types.Record) bool {
				return filter.Coerce(a.Data[spec.Key]) < filter.Coerce(b.Data[spec.Key])
			}
		} else {
			less = func(a, b types.Record) bool {
				return strings.ToLower(filter.Stringify(a.Data[spec.Key])) <
					strings.ToLower(filter.Stringify(b.Data[spec.Key]))
			}
		}
	}

	if spec.Direction == types.SortDesc {
		asc := less
		less = func(a, b types.Record) bool { return asc(b, a) }
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
}

// EffectiveColumns filters the requested column ids down to the currently
// valid, visible set. "id" is always present regardless of input; ids that
// no longer resolve to a field, or whose field is hidden, are silently
// dropped.
func EffectiveColumns(s types.Schema, requested []string) []string {
	columns := []string{"id"}
	for _, id := range requested {
		if id == "id" {
			continue
		}
		def, ok := schema.FieldByID(s, id)
		if !ok || !def.IsVisible {
			continue
		}
		columns = append(columns, id)
	}
	return columns
}

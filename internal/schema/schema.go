// Package schema owns the field bank and the tab/row/cell layout model.
// Every operation is a pure update: it returns a new Schema value and leaves
// its input untouched. The placement-uniqueness invariant (a field id lives
// in at most one cell across the whole layout) is enforced here, not at call
// sites.
package schema

import (
	"github.com/google/uuid"

	"github.com/acervohq/acervo/internal/types"
)

// allowedSpans are the column widths the 12-column grid accepts.
var allowedSpans = map[int]bool{3: true, 4: true, 6: true, 8: true, 9: true, 12: true}

// NormalizeSpan clamps a requested column span to the permitted set,
// defaulting to full width.
func NormalizeSpan(span int) int {
	if allowedSpans[span] {
		return span
	}
	return 12
}

// Clone returns a deep copy of s. All update operations start from a clone
// so callers can keep the previous value.
func Clone(s types.Schema) types.Schema {
	out := types.Schema{
		FieldBank: make([]types.FieldDefinition, len(s.FieldBank)),
		Tabs:      make([]types.Tab, len(s.Tabs)),
	}
	copy(out.FieldBank, s.FieldBank)
	for i := range out.FieldBank {
		if opts := out.FieldBank[i].Options; opts != nil {
			out.FieldBank[i].Options = append([]string(nil), opts...)
		}
	}
	for i, tab := range s.Tabs {
		ct := tab
		ct.Rows = make([]types.LayoutRow, len(tab.Rows))
		for j, row := range tab.Rows {
			ct.Rows[j].Cells = append([]types.LayoutCell(nil), row.Cells...)
		}
		out.Tabs[i] = ct
	}
	return out
}

// FieldByID looks a definition up in the field bank.
func FieldByID(s types.Schema, fieldID string) (types.FieldDefinition, bool) {
	for _, f := range s.FieldBank {
		if f.ID == fieldID {
			return f, true
		}
	}
	return types.FieldDefinition{}, false
}

// AddField appends def to the field bank. A definition with the same id
// replaces the existing one in place (last write wins, position kept). An
// empty id gets a generated one.
func AddField(s types.Schema, def types.FieldDefinition) types.Schema {
	out := Clone(s)
	if def.ID == "" {
		def.ID = uuid.New().String()
	}
	for i, f := range out.FieldBank {
		if f.ID == def.ID {
			out.FieldBank[i] = def
			return out
		}
	}
	out.FieldBank = append(out.FieldBank, def)
	return out
}

// UpdateField replaces the definition with the same id. Unknown ids are a
// no-op.
func UpdateField(s types.Schema, def types.FieldDefinition) types.Schema {
	out := Clone(s)
	for i, f := range out.FieldBank {
		if f.ID == def.ID {
			out.FieldBank[i] = def
			break
		}
	}
	return out
}

// RemoveField deletes the definition and purges every cell referencing it
// from every row of every tab. Rows emptied by the purge are preserved
// unless pruneEmptyRows is set.
func RemoveField(s types.Schema, fieldID string, pruneEmptyRows bool) types.Schema {
	out := Clone(s)
	kept := out.FieldBank[:0]
	for _, f := range out.FieldBank {
		if f.ID != fieldID {
			kept = append(kept, f)
		}
	}
	out.FieldBank = kept

	for ti := range out.Tabs {
		tab := &out.Tabs[ti]
		rows := tab.Rows[:0]
		for _, row := range tab.Rows {
			purged := false
			cells := row.Cells[:0]
			for _, c := range row.Cells {
				if c.FieldID == fieldID {
					purged = true
					continue
				}
				cells = append(cells, c)
			}
			row.Cells = cells
			if pruneEmptyRows && purged && len(row.Cells) == 0 {
				continue
			}
			rows = append(rows, row)
		}
		tab.Rows = rows
	}
	return out
}

// AddTab appends a new tab with a single empty row.
func AddTab(s types.Schema, label, icon string) types.Schema {
	out := Clone(s)
	out.Tabs = append(out.Tabs, types.Tab{
		ID:    uuid.New().String(),
		Label: label,
		Icon:  icon,
		Rows:  []types.LayoutRow{{}},
	})
	return out
}

// RemoveTab deletes the tab. Fields placed inside it return to the unplaced
// pool; their definitions stay in the bank.
func RemoveTab(s types.Schema, tabID string) types.Schema {
	out := Clone(s)
	kept := out.Tabs[:0]
	for _, t := range out.Tabs {
		if t.ID != tabID {
			kept = append(kept, t)
		}
	}
	out.Tabs = kept
	return out
}

// MoveTab swaps the tab at index with its neighbour. Direction is -1 (left)
// or +1 (right); out-of-range moves are a no-op.
func MoveTab(s types.Schema, index, direction int) types.Schema {
	out := Clone(s)
	target := index + direction
	if index < 0 || index >= len(out.Tabs) || target < 0 || target >= len(out.Tabs) {
		return out
	}
	out.Tabs[index], out.Tabs[target] = out.Tabs[target], out.Tabs[index]
	return out
}

// AddRow appends an empty row to the tab.
func AddRow(s types.Schema, tabID string) types.Schema {
	out := Clone(s)
	for ti := range out.Tabs {
		if out.Tabs[ti].ID == tabID {
			out.Tabs[ti].Rows = append(out.Tabs[ti].Rows, types.LayoutRow{})
			break
		}
	}
	return out
}

// RemoveRow deletes the row at rowIndex. Cells inside it vanish from the
// layout; the fields stay in the bank.
func RemoveRow(s types.Schema, tabID string, rowIndex int) types.Schema {
	out := Clone(s)
	for ti := range out.Tabs {
		tab := &out.Tabs[ti]
		if tab.ID != tabID {
			continue
		}
		if rowIndex >= 0 && rowIndex < len(tab.Rows) {
			tab.Rows = append(tab.Rows[:rowIndex], tab.Rows[rowIndex+1:]...)
		}
		break
	}
	return out
}

// MoveRow swaps the row at rowIndex with its neighbour within the same tab.
func MoveRow(s types.Schema, tabID string, rowIndex, direction int) types.Schema {
	out := Clone(s)
	for ti := range out.Tabs {
		tab := &out.Tabs[ti]
		if tab.ID != tabID {
			continue
		}
		target := rowIndex + direction
		if rowIndex >= 0 && rowIndex < len(tab.Rows) && target >= 0 && target < len(tab.Rows) {
			tab.Rows[rowIndex], tab.Rows[target] = tab.Rows[target], tab.Rows[rowIndex]
		}
		break
	}
	return out
}

// CellRef locates a cell inside the layout.
type CellRef struct {
	TabIndex int
	RowIndex int
	Cell     types.LayoutCell
}

// FindCell returns the location of the cell with cellID.
func FindCell(s types.Schema, cellID string) (CellRef, bool) {
	for ti, tab := range s.Tabs {
		for ri, row := range tab.Rows {
			for _, c := range row.Cells {
				if c.CellID == cellID {
					return CellRef{TabIndex: ti, RowIndex: ri, Cell: c}, true
				}
			}
		}
	}
	return CellRef{}, false
}

// findPlacement returns the location of the cell referencing fieldID, if any.
func findPlacement(s types.Schema, fieldID string) (CellRef, bool) {
	for ti, tab := range s.Tabs {
		for ri, row := range tab.Rows {
			for _, c := range row.Cells {
				if c.FieldID == fieldID {
					return CellRef{TabIndex: ti, RowIndex: ri, Cell: c}, true
				}
			}
		}
	}
	return CellRef{}, false
}

// dropCell removes the cell with cellID wherever it is. Rows are preserved
// even when emptied.
func dropCell(s *types.Schema, cellID string) {
	for ti := range s.Tabs {
		for ri := range s.Tabs[ti].Rows {
			row := &s.Tabs[ti].Rows[ri]
			for ci, c := range row.Cells {
				if c.CellID == cellID {
					row.Cells = append(row.Cells[:ci], row.Cells[ci+1:]...)
					return
				}
			}
		}
	}
}

// PlaceCell puts fieldID into the given tab and row. A field already placed
// elsewhere is relocated, never duplicated; its cell id is kept so the move
// is observable as the same cell. Unknown fields and tabs are a no-op.
func PlaceCell(s types.Schema, fieldID, tabID string, rowIndex, colSpan int) types.Schema {
	if _, ok := FieldByID(s, fieldID); !ok {
		return Clone(s)
	}
	out := Clone(s)

	cellID := uuid.New().String()
	if ref, placed := findPlacement(out, fieldID); placed {
		cellID = ref.Cell.CellID
		dropCell(&out, cellID)
	}

	for ti := range out.Tabs {
		tab := &out.Tabs[ti]
		if tab.ID != tabID {
			continue
		}
		if len(tab.Rows) == 0 {
			tab.Rows = []types.LayoutRow{{}}
		}
		if rowIndex < 0 {
			rowIndex = 0
		}
		if rowIndex >= len(tab.Rows) {
			rowIndex = len(tab.Rows) - 1
		}
		tab.Rows[rowIndex].Cells = append(tab.Rows[rowIndex].Cells, types.LayoutCell{
			CellID:  cellID,
			FieldID: fieldID,
			ColSpan: NormalizeSpan(colSpan),
		})
		break
	}
	return out
}

// MoveCellToTab removes the cell from its current row, drops rows the
// removal left empty (keeping at least one row in the source tab), and
// appends the cell to the first row of the target tab, creating one when the
// tab has none.
func MoveCellToTab(s types.Schema, cellID, targetTabID string) types.Schema {
	out := Clone(s)
	ref, ok := FindCell(out, cellID)
	if !ok {
		return out
	}

	dropCell(&out, cellID)
	src := &out.Tabs[ref.TabIndex]
	rows := src.Rows[:0]
	for _, row := range src.Rows {
		if len(row.Cells) > 0 {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		rows = []types.LayoutRow{{}}
	}
	src.Rows = rows

	for ti := range out.Tabs {
		tab := &out.Tabs[ti]
		if tab.ID != targetTabID {
			continue
		}
		if len(tab.Rows) == 0 {
			tab.Rows = []types.LayoutRow{{}}
		}
		tab.Rows[0].Cells = append(tab.Rows[0].Cells, ref.Cell)
		break
	}
	return out
}

// RemoveCell deletes the cell from the layout. The field stays in the bank.
func RemoveCell(s types.Schema, cellID string) types.Schema {
	out := Clone(s)
	dropCell(&out, cellID)
	return out
}

// SetCellSpan changes the cell's column span, clamped to the permitted set.
func SetCellSpan(s types.Schema, cellID string, colSpan int) types.Schema {
	out := Clone(s)
	for ti := range out.Tabs {
		for ri := range out.Tabs[ti].Rows {
			row := &out.Tabs[ti].Rows[ri]
			for ci := range row.Cells {
				if row.Cells[ci].CellID == cellID {
					row.Cells[ci].ColSpan = NormalizeSpan(colSpan)
					return out
				}
			}
		}
	}
	return out
}

package schema

import (
	"testing"

	"github.com/acervohq/acervo/internal/types"
)

func layoutFixture() types.Schema {
	return types.Schema{
		FieldBank: []types.FieldDefinition{
			{ID: "titulo", Label: "Título", Type: types.FieldShortText, IsVisible: true},
			{ID: "isbn", Label: "ISBN", Type: types.FieldISBN, IsVisible: true},
			{ID: "valor", Label: "Valor", Type: types.FieldCurrency, IsVisible: true},
		},
		Tabs: []types.Tab{
			{ID: "t1", Label: "Dados", Icon: "book", Rows: []types.LayoutRow{
				{Cells: []types.LayoutCell{
					{CellID: "c-titulo", FieldID: "titulo", ColSpan: 6},
					{CellID: "c-isbn", FieldID: "isbn", ColSpan: 6},
				}},
				{Cells: []types.LayoutCell{
					{CellID: "c-valor", FieldID: "valor", ColSpan: 12},
				}},
			}},
			{ID: "t2", Label: "Negociação", Icon: "handshake", Rows: []types.LayoutRow{{}}},
		},
	}
}

// placements returns fieldID -> number of cells referencing it.
func placements(s types.Schema) map[string]int {
	out := make(map[string]int)
	for _, tab := range s.Tabs {
		for _, row := range tab.Rows {
			for _, c := range row.Cells {
				out[c.FieldID]++
			}
		}
	}
	return out
}

func TestNormalizeSpan(t *testing.T) {
	for _, valid := range []int{3, 4, 6, 8, 9, 12} {
		if got := NormalizeSpan(valid); got != valid {
			t.Errorf("NormalizeSpan(%d) = %d", valid, got)
		}
	}
	for _, invalid := range []int{0, 1, 2, 5, 7, 10, 11, 13, -4} {
		if got := NormalizeSpan(invalid); got != 12 {
			t.Errorf("NormalizeSpan(%d) = %d, want 12", invalid, got)
		}
	}
}

func TestClone_Independent(t *testing.T) {
	s := layoutFixture()
	c := Clone(s)

	c.FieldBank[0].Label = "changed"
	c.Tabs[0].Rows[0].Cells[0].ColSpan = 3

	if s.FieldBank[0].Label != "Título" {
		t.Error("clone shares field bank backing array")
	}
	if s.Tabs[0].Rows[0].Cells[0].ColSpan != 6 {
		t.Error("clone shares cell backing array")
	}
}

func TestAddField_GeneratesID(t *testing.T) {
	s := AddField(layoutFixture(), types.FieldDefinition{Label: "Novo", Type: types.FieldShortText})
	added := s.FieldBank[len(s.FieldBank)-1]
	if added.ID == "" {
		t.Error("expected generated id")
	}
	if added.Label != "Novo" {
		t.Errorf("label = %q", added.Label)
	}
}

func TestAddField_SameIDReplacesInPlace(t *testing.T) {
	s := AddField(layoutFixture(), types.FieldDefinition{ID: "isbn", Label: "ISBN-13", Type: types.FieldISBN})
	if len(s.FieldBank) != 3 {
		t.Fatalf("bank size = %d, want 3", len(s.FieldBank))
	}
	if s.FieldBank[1].Label != "ISBN-13" {
		t.Errorf("position 1 label = %q, want replaced definition", s.FieldBank[1].Label)
	}
}

func TestUpdateField_UnknownIDIsNoop(t *testing.T) {
	before := layoutFixture()
	after := UpdateField(before, types.FieldDefinition{ID: "nope", Label: "x"})
	if len(after.FieldBank) != len(before.FieldBank) {
		t.Error("unknown id changed the bank")
	}
}

func TestRemoveField_PurgesCellsKeepsRows(t *testing.T) {
	s := RemoveField(layoutFixture(), "valor", false)

	if _, ok := FieldByID(s, "valor"); ok {
		t.Error("field still in bank")
	}
	if placements(s)["valor"] != 0 {
		t.Error("cell still placed")
	}
	if len(s.Tabs[0].Rows) != 2 {
		t.Errorf("rows = %d, want emptied row preserved", len(s.Tabs[0].Rows))
	}
}

func TestRemoveField_PruneDropsEmptiedRows(t *testing.T) {
	s := RemoveField(layoutFixture(), "valor", true)
	if len(s.Tabs[0].Rows) != 1 {
		t.Errorf("rows = %d, want emptied row pruned", len(s.Tabs[0].Rows))
	}
}

func TestAddTab_StartsWithOneEmptyRow(t *testing.T) {
	s := AddTab(layoutFixture(), "Financeiro", "coin")
	tab := s.Tabs[len(s.Tabs)-1]
	if tab.ID == "" || tab.Label != "Financeiro" || tab.Icon != "coin" {
		t.Errorf("tab = %+v", tab)
	}
	if len(tab.Rows) != 1 || len(tab.Rows[0].Cells) != 0 {
		t.Errorf("rows = %+v, want one empty row", tab.Rows)
	}
}

func TestRemoveTab_FieldsStayInBank(t *testing.T) {
	s := RemoveTab(layoutFixture(), "t1")
	if len(s.Tabs) != 1 || s.Tabs[0].ID != "t2" {
		t.Fatalf("tabs = %+v", s.Tabs)
	}
	if len(s.FieldBank) != 3 {
		t.Errorf("bank size = %d, removing a tab must not touch the bank", len(s.FieldBank))
	}
}

func TestMoveTab(t *testing.T) {
	s := MoveTab(layoutFixture(), 0, +1)
	if s.Tabs[0].ID != "t2" || s.Tabs[1].ID != "t1" {
		t.Errorf("order = %s, %s", s.Tabs[0].ID, s.Tabs[1].ID)
	}

	// Out-of-range moves are no-ops.
	s = MoveTab(layoutFixture(), 0, -1)
	if s.Tabs[0].ID != "t1" {
		t.Error("move past left edge changed order")
	}
	s = MoveTab(layoutFixture(), 1, +1)
	if s.Tabs[1].ID != "t2" {
		t.Error("move past right edge changed order")
	}
}

func TestRowOperations(t *testing.T) {
	s := AddRow(layoutFixture(), "t1")
	if len(s.Tabs[0].Rows) != 3 {
		t.Fatalf("rows = %d after AddRow", len(s.Tabs[0].Rows))
	}

	s = MoveRow(s, "t1", 0, +1)
	if s.Tabs[0].Rows[1].Cells[0].CellID != "c-titulo" {
		t.Error("MoveRow did not swap")
	}

	s = RemoveRow(s, "t1", 2)
	if len(s.Tabs[0].Rows) != 2 {
		t.Errorf("rows = %d after RemoveRow", len(s.Tabs[0].Rows))
	}

	// Out-of-range indexes are no-ops.
	s = RemoveRow(s, "t1", 99)
	if len(s.Tabs[0].Rows) != 2 {
		t.Error("out-of-range RemoveRow changed rows")
	}
}

func TestPlaceCell_NewPlacement(t *testing.T) {
	s := layoutFixture()
	s = RemoveCell(s, "c-valor")
	s = PlaceCell(s, "valor", "t2", 0, 6)

	if placements(s)["valor"] != 1 {
		t.Fatalf("placements = %v", placements(s))
	}
	cell := s.Tabs[1].Rows[0].Cells[0]
	if cell.FieldID != "valor" || cell.ColSpan != 6 {
		t.Errorf("cell = %+v", cell)
	}
	if cell.CellID == "" {
		t.Error("expected generated cell id")
	}
}

func TestPlaceCell_RelocatesKeepingCellID(t *testing.T) {
	s := PlaceCell(layoutFixture(), "titulo", "t2", 0, 12)

	if n := placements(s)["titulo"]; n != 1 {
		t.Fatalf("titulo placed %d times, want exactly 1", n)
	}
	cell := s.Tabs[1].Rows[0].Cells[0]
	if cell.CellID != "c-titulo" {
		t.Errorf("cell id = %q, relocation must keep it", cell.CellID)
	}
	if len(s.Tabs[0].Rows[0].Cells) != 1 {
		t.Error("old placement not removed")
	}
}

func TestPlaceCell_UnknownFieldIsNoop(t *testing.T) {
	before := layoutFixture()
	after := PlaceCell(before, "fantasma", "t1", 0, 6)
	if placements(after)["fantasma"] != 0 {
		t.Error("unknown field was placed")
	}
}

func TestPlaceCell_ClampsRowIndexAndSpan(t *testing.T) {
	s := layoutFixture()
	s = RemoveCell(s, "c-valor")
	s = PlaceCell(s, "valor", "t1", 99, 5)

	last := s.Tabs[0].Rows[1].Cells
	cell := last[len(last)-1]
	if cell.FieldID != "valor" {
		t.Fatal("cell not clamped into last row")
	}
	if cell.ColSpan != 12 {
		t.Errorf("span = %d, want clamped to 12", cell.ColSpan)
	}
}

func TestMoveCellToTab(t *testing.T) {
	s := MoveCellToTab(layoutFixture(), "c-valor", "t2")

	if len(s.Tabs[1].Rows[0].Cells) != 1 || s.Tabs[1].Rows[0].Cells[0].CellID != "c-valor" {
		t.Fatalf("target tab rows = %+v", s.Tabs[1].Rows)
	}
	// The emptied source row is dropped.
	if len(s.Tabs[0].Rows) != 1 {
		t.Errorf("source rows = %d, want emptied row dropped", len(s.Tabs[0].Rows))
	}
}

func TestMoveCellToTab_KeepsAtLeastOneSourceRow(t *testing.T) {
	s := types.Schema{
		FieldBank: []types.FieldDefinition{{ID: "f1", Label: "F1", Type: types.FieldShortText, IsVisible: true}},
		Tabs: []types.Tab{
			{ID: "t1", Label: "A", Rows: []types.LayoutRow{
				{Cells: []types.LayoutCell{{CellID: "c1", FieldID: "f1", ColSpan: 12}}},
			}},
			{ID: "t2", Label: "B"},
		},
	}
	out := MoveCellToTab(s, "c1", "t2")
	if len(out.Tabs[0].Rows) != 1 {
		t.Errorf("source rows = %d, want one empty row kept", len(out.Tabs[0].Rows))
	}
	if len(out.Tabs[1].Rows) != 1 || out.Tabs[1].Rows[0].Cells[0].CellID != "c1" {
		t.Errorf("target rows = %+v, want row created for the cell", out.Tabs[1].Rows)
	}
}

func TestRemoveCell_FieldStaysInBank(t *testing.T) {
	s := RemoveCell(layoutFixture(), "c-isbn")
	if placements(s)["isbn"] != 0 {
		t.Error("cell still placed")
	}
	if _, ok := FieldByID(s, "isbn"); !ok {
		t.Error("field removed from bank")
	}
}

func TestSetCellSpan(t *testing.T) {
	s := SetCellSpan(layoutFixture(), "c-titulo", 4)
	if got := s.Tabs[0].Rows[0].Cells[0].ColSpan; got != 4 {
		t.Errorf("span = %d", got)
	}

	s = SetCellSpan(layoutFixture(), "c-titulo", 7)
	if got := s.Tabs[0].Rows[0].Cells[0].ColSpan; got != 12 {
		t.Errorf("invalid span = %d, want clamped to 12", got)
	}
}

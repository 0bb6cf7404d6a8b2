package schema

import (
	"encoding/json"
	"log"

	"github.com/acervohq/acervo/internal/types"
)

// Default returns the schema a fresh install starts from: one empty tab and
// the mandatory system fields in the bank. Nothing is placed in the layout;
// the form renders empty until an operator places fields.
func Default() types.Schema {
	return Normalize(types.Schema{
		Tabs: []types.Tab{defaultTab()},
	})
}

func defaultTab() types.Tab {
	// Fixed ids keep repeated normalization a no-op.
	return types.Tab{
		ID:    "tab-geral",
		Label: "Dados Gerais",
		Icon:  "book",
		Rows:  []types.LayoutRow{{}},
	}
}

// legacyProbe is the partial unmarshal used to detect the old schema shape,
// where tabs embedded their fields directly instead of referencing a field
// bank.
type legacyProbe struct {
	FieldBank *[]types.FieldDefinition `json:"fieldBank"`
	Tabs      []struct {
		Fields *[]types.FieldDefinition `json:"fields"`
		Rows   *[]types.LayoutRow       `json:"rows"`
	} `json:"tabs"`
}

// isLegacy reports whether raw is the pre-field-bank schema shape: tabs
// exist, no fieldBank, and the first tab carries a fields list but no rows.
func isLegacy(p legacyProbe) bool {
	return len(p.Tabs) > 0 && p.FieldBank == nil &&
		p.Tabs[0].Fields != nil && p.Tabs[0].Rows == nil
}

// NormalizeRaw is the total entry point for schemas coming off the store:
// absent, legacy-format, current-format, and malformed inputs all come out
// as a valid current-format Schema. It never fails.
func NormalizeRaw(raw json.RawMessage) types.Schema {
	if len(raw) == 0 || string(raw) == "null" {
		return Default()
	}

	var probe legacyProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		log.Printf("schema: unreadable stored schema, starting fresh: %v", err)
		return Default()
	}
	if isLegacy(probe) {
		var legacy struct {
			Tabs []types.LegacyTab `json:"tabs"`
		}
		if err := json.Unmarshal(raw, &legacy); err != nil {
			log.Printf("schema: unreadable legacy schema, starting fresh: %v", err)
			return Default()
		}
		return Normalize(Migrate(legacy.Tabs))
	}

	var s types.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Printf("schema: unreadable stored schema, starting fresh: %v", err)
		return Default()
	}
	return Normalize(s)
}

// Migrate converts legacy tabs into the current layout shape. Fields are
// collected into a new bank in first-occurrence order across all tabs; each
// tab gets a single row holding one full-width cell per field, in the tab's
// original field order. A field repeated across tabs keeps only its first
// placement so the placement-uniqueness invariant holds.
func Migrate(tabs []types.LegacyTab) types.Schema {
	seen := make(map[string]bool)
	out := types.Schema{}
	for _, lt := range tabs {
		row := types.LayoutRow{}
		for _, f := range lt.Fields {
			if f.ID == "" || seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			out.FieldBank = append(out.FieldBank, f)
			row.Cells = append(row.Cells, types.LayoutCell{
				CellID:  "cell-" + f.ID,
				FieldID: f.ID,
				ColSpan: 12,
			})
		}
		out.Tabs = append(out.Tabs, types.Tab{
			ID:    lt.ID,
			Label: lt.Label,
			Icon:  lt.Icon,
			Rows:  []types.LayoutRow{row},
		})
	}
	return out
}

// Normalize repairs a current-format schema and injects the mandatory system
// fields. It is idempotent: normalizing an already-normalized schema changes
// neither field bank contents nor ordering, and tabs are never deleted or
// reordered.
//
// Repairs performed, all silent (logged, never surfaced):
//   - duplicate field ids collapse last-write-wins, first position kept
//   - cells referencing a field missing from the bank are dropped
//   - a second cell referencing an already-placed field is dropped
//   - invalid column spans clamp to the permitted set
//   - a schema with no tabs gains the default tab
func Normalize(s types.Schema) types.Schema {
	out := Clone(s)

	// Collapse duplicate ids, keeping the position of the first occurrence
	// and the content of the last.
	index := make(map[string]int)
	var bank []types.FieldDefinition
	for _, f := range out.FieldBank {
		if f.ID == "" {
			continue
		}
		if at, dup := index[f.ID]; dup {
			log.Printf("schema: duplicate field id %q, last definition wins", f.ID)
			bank[at] = f
			continue
		}
		index[f.ID] = len(bank)
		bank = append(bank, f)
	}
	out.FieldBank = bank

	for _, sys := range SystemFields() {
		if _, ok := index[sys.ID]; ok {
			continue
		}
		index[sys.ID] = len(out.FieldBank)
		out.FieldBank = append(out.FieldBank, sys)
	}

	placed := make(map[string]bool)
	for ti := range out.Tabs {
		tab := &out.Tabs[ti]
		for ri := range tab.Rows {
			row := &tab.Rows[ri]
			cells := row.Cells[:0]
			for _, c := range row.Cells {
				if _, ok := index[c.FieldID]; !ok {
					log.Printf("schema: dropping cell %s, field %q not in bank", c.CellID, c.FieldID)
					continue
				}
				if placed[c.FieldID] {
					log.Printf("schema: dropping cell %s, field %q already placed", c.CellID, c.FieldID)
					continue
				}
				placed[c.FieldID] = true
				c.ColSpan = NormalizeSpan(c.ColSpan)
				cells = append(cells, c)
			}
			row.Cells = cells
		}
	}

	if len(out.Tabs) == 0 {
		out.Tabs = []types.Tab{defaultTab()}
	}
	return out
}

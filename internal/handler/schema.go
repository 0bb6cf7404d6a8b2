// Schema handlers: the field bank and layout operations. Every mutation is
// expressed as a pure schema update applied through the catalog service, so
// the placement invariants live in one place.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acervohq/acervo/internal/catalog"
	"github.com/acervohq/acervo/internal/schema"
	"github.com/acervohq/acervo/internal/types"
)

// SchemaHandler implements HTTP handlers for the schema and its layout.
type SchemaHandler struct {
	svc *catalog.Service
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(svc *catalog.Service) *SchemaHandler {
	return &SchemaHandler{svc: svc}
}

// HandleGetSchema returns the current normalized schema.
// GET /v1/schema
func (h *SchemaHandler) HandleGetSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Schema())
}

// HandleReplaceSchema swaps in a full schema document. The body passes
// through the normalizer, so legacy shapes and invariant violations are
// repaired, never rejected.
// PUT /v1/schema
func (h *SchemaHandler) HandleReplaceSchema(w http.ResponseWriter, r *http.Request) {
	var next types.Schema
	if err := decodeJSON(r, &next); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.svc.ReplaceSchema(r.Context(), next))
}

// HandleAddField appends a field definition to the bank.
// POST /v1/schema/fields
func (h *SchemaHandler) HandleAddField(w http.ResponseWriter, r *http.Request) {
	var def types.FieldDefinition
	if err := decodeJSON(r, &def); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if def.Label == "" {
		writeError(w, http.StatusBadRequest, "MISSING_LABEL", "field label is required")
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "add_field", func(s types.Schema) types.Schema {
		return schema.AddField(s, def)
	})
	writeJSON(w, http.StatusCreated, updated)
}

// HandleUpdateField replaces a field definition.
// PATCH /v1/schema/fields/{field_id}
func (h *SchemaHandler) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	fieldID := chi.URLParam(r, "field_id")
	var def types.FieldDefinition
	if err := decodeJSON(r, &def); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	def.ID = fieldID
	if _, ok := schema.FieldByID(h.svc.Schema(), fieldID); !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "field not found: "+fieldID)
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "update_field", func(s types.Schema) types.Schema {
		return schema.UpdateField(s, def)
	})
	writeJSON(w, http.StatusOK, updated)
}

// HandleRemoveField deletes a field and purges its layout cells. With
// ?prune_rows=true, rows the purge left empty are dropped as well.
// DELETE /v1/schema/fields/{field_id}
func (h *SchemaHandler) HandleRemoveField(w http.ResponseWriter, r *http.Request) {
	fieldID := chi.URLParam(r, "field_id")
	prune := r.URL.Query().Get("prune_rows") == "true"
	updated := h.svc.ApplySchemaOp(r.Context(), "remove_field", func(s types.Schema) types.Schema {
		return schema.RemoveField(s, fieldID, prune)
	})
	writeJSON(w, http.StatusOK, updated)
}

// HandleAddTab creates a tab.
// POST /v1/schema/tabs
func (h *SchemaHandler) HandleAddTab(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Label string `json:"label"`
		Icon  string `json:"icon"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if body.Label == "" {
		writeError(w, http.StatusBadRequest, "MISSING_LABEL", "tab label is required")
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "add_tab", func(s types.Schema) types.Schema {
		return schema.AddTab(s, body.Label, body.Icon)
	})
	writeJSON(w, http.StatusCreated, updated)
}

// HandleRemoveTab deletes a tab. Fields placed inside it stay in the bank.
// DELETE /v1/schema/tabs/{tab_id}
func (h *SchemaHandler) HandleRemoveTab(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tab_id")
	updated := h.svc.ApplySchemaOp(r.Context(), "remove_tab", func(s types.Schema) types.Schema {
		return schema.RemoveTab(s, tabID)
	})
	writeJSON(w, http.StatusOK, updated)
}

// HandleMoveTab swaps a tab with its neighbour.
// POST /v1/schema/tabs/{tab_id}/move  body: {"direction": -1 | 1}
func (h *SchemaHandler) HandleMoveTab(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tab_id")
	var body struct {
		Direction int `json:"direction"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if body.Direction != -1 && body.Direction != 1 {
		writeError(w, http.StatusBadRequest, "INVALID_DIRECTION", "direction must be -1 or 1")
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "move_tab", func(s types.Schema) types.Schema {
		for i, t := range s.Tabs {
			if t.ID == tabID {
				return schema.MoveTab(s, i, body.Direction)
			}
		}
		return s
	})
	writeJSON(w, http.StatusOK, updated)
}

// HandleAddRow appends an empty row to a tab.
// POST /v1/schema/tabs/{tab_id}/rows
func (h *SchemaHandler) HandleAddRow(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tab_id")
	updated := h.svc.ApplySchemaOp(r.Context(), "add_row", func(s types.Schema) types.Schema {
		return schema.AddRow(s, tabID)
	})
	writeJSON(w, http.StatusCreated, updated)
}

// HandleRemoveRow deletes a row by index.
// DELETE /v1/schema/tabs/{tab_id}/rows/{index}
func (h *SchemaHandler) HandleRemoveRow(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tab_id")
	index, ok := parseIndex(w, chi.URLParam(r, "index"))
	if !ok {
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "remove_row", func(s types.Schema) types.Schema {
		return schema.RemoveRow(s, tabID, index)
	})
	writeJSON(w, http.StatusOK, updated)
}

// HandleMoveRow swaps a row with its neighbour within the tab.
// POST /v1/schema/tabs/{tab_id}/rows/{index}/move  body: {"direction": -1 | 1}
func (h *SchemaHandler) HandleMoveRow(w http.ResponseWriter, r *http.Request) {
	tabID := chi.URLParam(r, "tab_id")
	index, ok := parseIndex(w, chi.URLParam(r, "index"))
	if !ok {
		return
	}
	var body struct {
		Direction int `json:"direction"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if body.Direction != -1 && body.Direction != 1 {
		writeError(w, http.StatusBadRequest, "INVALID_DIRECTION", "direction must be -1 or 1")
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "move_row", func(s types.Schema) types.Schema {
		return schema.MoveRow(s, tabID, index, body.Direction)
	})
	writeJSON(w, http.StatusOK, updated)
}

// HandlePlaceCell places a field into a tab row. A field already placed
// elsewhere is relocated, never duplicated.
// POST /v1/schema/cells
func (h *SchemaHandler) HandlePlaceCell(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FieldID  string `json:"fieldId"`
		TabID    string `json:"tabId"`
		RowIndex int    `json:"rowIndex"`
		ColSpan  int    `json:"colSpan"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if _, ok := schema.FieldByID(h.svc.Schema(), body.FieldID); !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "field not found: "+body.FieldID)
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "place_cell", func(s types.Schema) types.Schema {
		return schema.PlaceCell(s, body.FieldID, body.TabID, body.RowIndex, body.ColSpan)
	})
	writeJSON(w, http.StatusCreated, updated)
}

// HandleMoveCellToTab moves a cell to another tab's first row.
// POST /v1/schema/cells/{cell_id}/move-to-tab  body: {"tabId": "..."}
func (h *SchemaHandler) HandleMoveCellToTab(w http.ResponseWriter, r *http.Request) {
	cellID := chi.URLParam(r, "cell_id")
	var body struct {
		TabID string `json:"tabId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "move_cell", func(s types.Schema) types.Schema {
		return schema.MoveCellToTab(s, cellID, body.TabID)
	})
	writeJSON(w, http.StatusOK, updated)
}

// HandleRemoveCell deletes a cell from the layout.
// DELETE /v1/schema/cells/{cell_id}
func (h *SchemaHandler) HandleRemoveCell(w http.ResponseWriter, r *http.Request) {
	cellID := chi.URLParam(r, "cell_id")
	updated := h.svc.ApplySchemaOp(r.Context(), "remove_cell", func(s types.Schema) types.Schema {
		return schema.RemoveCell(s, cellID)
	})
	writeJSON(w, http.StatusOK, updated)
}

// HandleSetCellSpan changes a cell's column span.
// PATCH /v1/schema/cells/{cell_id}  body: {"colSpan": 6}
func (h *SchemaHandler) HandleSetCellSpan(w http.ResponseWriter, r *http.Request) {
	cellID := chi.URLParam(r, "cell_id")
	var body struct {
		ColSpan int `json:"colSpan"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	updated := h.svc.ApplySchemaOp(r.Context(), "set_cell_span", func(s types.Schema) types.Schema {
		return schema.SetCellSpan(s, cellID, body.ColSpan)
	})
	writeJSON(w, http.StatusOK, updated)
}

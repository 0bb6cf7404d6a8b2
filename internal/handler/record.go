package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/acervohq/acervo/internal/catalog"
	"github.com/acervohq/acervo/internal/types"
	"github.com/acervohq/acervo/internal/view"
)

// RecordHandler implements HTTP handlers for records and the projected view.
type RecordHandler struct {
	svc *catalog.Service
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(svc *catalog.Service) *RecordHandler {
	return &RecordHandler{svc: svc}
}

// HandleListRecords runs the view pipeline and returns the visible page.
// GET /v1/records?filter_id=&q=&sort=&dir=&columns=a,b&page=&page_size=
func (h *RecordHandler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := parsePagination(r)

	req := view.Request{
		SearchTerm: q.Get("q"),
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
	if key := q.Get("sort"); key != "" {
		dir := types.SortAsc
		if q.Get("dir") == "desc" {
			dir = types.SortDesc
		}
		req.Sort = types.SortSpec{Key: key, Direction: dir}
	}
	if cols := q.Get("columns"); cols != "" {
		req.VisibleColumns = strings.Split(cols, ",")
	}

	writeJSON(w, http.StatusOK, h.svc.Query(q.Get("filter_id"), req))
}

// HandleGetRecord returns one record.
// GET /v1/records/{id}
func (h *RecordHandler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := h.svc.Record(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "record not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleCreateRecord creates a record with a generated id.
// POST /v1/records  body: {"data": {...}}
func (h *RecordHandler) HandleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	rec := h.svc.SaveRecord(r.Context(), "", body.Data)
	writeJSON(w, http.StatusCreated, rec)
}

// HandleSaveRecord upserts a record under the given id. Data is stored
// as-is; records are never schema-validated on write.
// PUT /v1/records/{id}  body: {"data": {...}}
func (h *RecordHandler) HandleSaveRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	rec := h.svc.SaveRecord(r.Context(), id, body.Data)
	writeJSON(w, http.StatusOK, rec)
}

// HandleDeleteRecord deletes a record.
// DELETE /v1/records/{id}
func (h *RecordHandler) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.svc.DeleteRecord(r.Context(), id) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "record not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acervohq/acervo/internal/catalog"
	"github.com/acervohq/acervo/internal/types"
)

// FilterHandler implements HTTP handlers for saved filters.
type FilterHandler struct {
	svc *catalog.Service
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(svc *catalog.Service) *FilterHandler {
	return &FilterHandler{svc: svc}
}

// HandleListFilters returns all saved filters.
// GET /v1/filters
func (h *FilterHandler) HandleListFilters(w http.ResponseWriter, r *http.Request) {
	filters := h.svc.Filters()
	if filters == nil {
		filters = []types.SavedFilter{}
	}
	writeJSON(w, http.StatusOK, filters)
}

// HandleCreateFilter saves a new filter, generating an id.
// POST /v1/filters
func (h *FilterHandler) HandleCreateFilter(w http.ResponseWriter, r *http.Request) {
	var f types.SavedFilter
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if f.Name == "" {
		writeError(w, http.StatusBadRequest, "MISSING_NAME", "filter name is required")
		return
	}
	f.ID = ""
	writeJSON(w, http.StatusCreated, h.svc.SaveFilter(r.Context(), f))
}

// HandleUpdateFilter upserts a filter under the given id.
// PUT /v1/filters/{id}
func (h *FilterHandler) HandleUpdateFilter(w http.ResponseWriter, r *http.Request) {
	var f types.SavedFilter
	if err := decodeJSON(r, &f); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	f.ID = chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, h.svc.SaveFilter(r.Context(), f))
}

// HandleDeleteFilter deletes a saved filter.
// DELETE /v1/filters/{id}
func (h *FilterHandler) HandleDeleteFilter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.svc.DeleteFilter(r.Context(), id) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "filter not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

package handler

import (
	"net/http"

	"github.com/acervohq/acervo/internal/catalog"
)

// DashboardHandler serves the aggregation series for BI-flagged fields.
type DashboardHandler struct {
	svc *catalog.Service
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *catalog.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// HandleGetDashboard recomputes and returns every BI series.
// GET /v1/dashboard
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Dashboard())
}

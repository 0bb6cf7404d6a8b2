// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acervohq/acervo/internal/catalog"
	"github.com/acervohq/acervo/internal/handler"
)

// Config holds server configuration.
type Config struct {
	Port    int
	Catalog *catalog.Service
	Live    *handler.LiveHub
}

// Run starts the HTTP server with all routes registered. It blocks until the
// listener fails or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	r := chi.NewRouter()

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	sh := handler.NewSchemaHandler(cfg.Catalog)
	rh := handler.NewRecordHandler(cfg.Catalog)
	fh := handler.NewFilterHandler(cfg.Catalog)
	dh := handler.NewDashboardHandler(cfg.Catalog)

	r.Route("/v1", func(r chi.Router) {
		// Schema document
		r.Get("/schema", sh.HandleGetSchema)
		r.Put("/schema", sh.HandleReplaceSchema)

		// Field bank
		r.Post("/schema/fields", sh.HandleAddField)
		r.Patch("/schema/fields/{field_id}", sh.HandleUpdateField)
		r.Delete("/schema/fields/{field_id}", sh.HandleRemoveField)

		// Tabs
		r.Post("/schema/tabs", sh.HandleAddTab)
		r.Delete("/schema/tabs/{tab_id}", sh.HandleRemoveTab)
		r.Post("/schema/tabs/{tab_id}/move", sh.HandleMoveTab)

		// Rows
		r.Post("/schema/tabs/{tab_id}/rows", sh.HandleAddRow)
		r.Delete("/schema/tabs/{tab_id}/rows/{index}", sh.HandleRemoveRow)
		r.Post("/schema/tabs/{tab_id}/rows/{index}/move", sh.HandleMoveRow)

		// Cells
		r.Post("/schema/cells", sh.HandlePlaceCell)
		r.Post("/schema/cells/{cell_id}/move-to-tab", sh.HandleMoveCellToTab)
		r.Delete("/schema/cells/{cell_id}", sh.HandleRemoveCell)
		r.Patch("/schema/cells/{cell_id}", sh.HandleSetCellSpan)

		// Records
		r.Get("/records", rh.HandleListRecords)
		r.Post("/records", rh.HandleCreateRecord)
		r.Get("/records/{id}", rh.HandleGetRecord)
		r.Put("/records/{id}", rh.HandleSaveRecord)
		r.Delete("/records/{id}", rh.HandleDeleteRecord)

		// Saved filters
		r.Get("/filters", fh.HandleListFilters)
		r.Post("/filters", fh.HandleCreateFilter)
		r.Put("/filters/{id}", fh.HandleUpdateFilter)
		r.Delete("/filters/{id}", fh.HandleDeleteFilter)

		// Dashboard aggregation
		r.Get("/dashboard", dh.HandleGetDashboard)

		// Live invalidation stream
		if cfg.Live != nil {
			r.Get("/live", cfg.Live.ServeHTTP)
		}
	})

	// Wrap with middleware
	wrapped := handler.Recovery(handler.Logging(r))

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting server on %s", addr)

	server := &http.Server{
		Addr:    addr,
		Handler: wrapped,
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	return server.ListenAndServe()
}

package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// Pagination holds parsed pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// parsePagination extracts page and page_size from query params, clamped to
// sane bounds.
func parsePagination(r *http.Request) Pagination {
	p := Pagination{Page: 1, PageSize: 20}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.PageSize = n
		}
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// parseIndex extracts a non-negative integer path parameter.
func parseIndex(w http.ResponseWriter, raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_INDEX", "invalid row index: "+raw)
		return 0, false
	}
	return n, true
}

package http

import (
	"net/http"

	"ledgerboard/internal/core"
	"ledgerboard/internal/summary"
)

// handleGetSummary serves the aggregated dashboard payload. Results are
// cached per filter until the next mutation.
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	f := summary.Filter{
		Period:       r.URL.Query().Get("period"),
		CategoryType: core.CategoryType(r.URL.Query().Get("type")),
	}
	if err := f.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	cacheKey := f.Applied() + "|" + string(f.CategoryType)
	if cached, ok := s.summaryCache.Get(cacheKey); ok {
		w.Header().Set("X-Cache", "HIT")
		writeJSON(w, http.StatusOK, cached)
		return
	}

	result, err := s.summaries.Build(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Set(cacheKey, result)
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, result)
}

package http

import (
	"net/http"
	"strconv"

	"ledgerboard/internal/core"
)

// pathID parses the {id} path segment. A non-numeric or non-positive id
// never reaches storage.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type entryRequest struct {
	AccountID int64      `json:"account_id"`
	Period    string     `json:"period"`
	Budget    core.Money `json:"budget"`
	Actual    core.Money `json:"actual"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes"`
}

func (req entryRequest) toEntry(id int64) core.LedgerEntry {
	status := req.Status
	if status == "" {
		status = string(core.StatusForecast)
	}
	return core.LedgerEntry{
		ID:        id,
		AccountID: req.AccountID,
		Period:    req.Period,
		Budget:    req.Budget,
		Actual:    req.Actual,
		Status:    core.EntryStatus(status),
		Notes:     sanitizeInput(req.Notes),
	}
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period := q.Get("period")
	if period != "" {
		if err := core.ValidatePeriodCode(period); err != nil {
			writeError(w, r, err)
			return
		}
	}

	entries, err := s.store.ListEntries(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var byAccount int64
	if raw := q.Get("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid account_id filter")
			return
		}
		byAccount = id
	}
	var byStatus core.EntryStatus
	if raw := q.Get("status"); raw != "" {
		st, err := core.ParseEntryStatus(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		byStatus = st
	}
	var byType core.CategoryType
	if raw := q.Get("type"); raw != "" {
		ct, err := core.ParseCategoryType(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		byType = ct
	}

	writeJSON(w, http.StatusOK, filterEntries(entries, byAccount, byStatus, byType))
}

// filterEntries narrows a listing by account, status and category type.
// The period filter is pushed into the query; these run in memory since
// the joined result set is already small.
func filterEntries(rows []core.EntryRow, byAccount int64, byStatus core.EntryStatus, byType core.CategoryType) []core.EntryRow {
	if byAccount == 0 && byStatus == "" && byType == "" {
		return rows
	}
	out := make([]core.EntryRow, 0, len(rows))
	for _, row := range rows {
		if byAccount != 0 && row.AccountID != byAccount {
			continue
		}
		if byStatus != "" && row.Status != byStatus {
			continue
		}
		if byType != "" && row.CategoryType != byType {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	entry, err := s.store.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	entry := req.toEntry(0)
	if err := entry.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	row, err := s.ledger.CreateEntry(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, row)
}

// entryUpdateRequest uses pointers so inline edits can send only the
// fields that changed; absent fields keep their stored values.
type entryUpdateRequest struct {
	Budget *core.Money `json:"budget"`
	Actual *core.Money `json:"actual"`
	Status *string     `json:"status"`
	Notes  *string     `json:"notes"`
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var req entryUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	existing, err := s.store.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry := existing.LedgerEntry
	if req.Budget != nil {
		entry.Budget = *req.Budget
	}
	if req.Actual != nil {
		entry.Actual = *req.Actual
	}
	if req.Status != nil {
		entry.Status = core.EntryStatus(*req.Status)
	}
	if req.Notes != nil {
		entry.Notes = sanitizeInput(*req.Notes)
	}
	if err := entry.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	row, err := s.ledger.UpdateEntry(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := s.ledger.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"
	"strconv"

	"ledgerboard/internal/core"
)

type categoryRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
}

func (req categoryRequest) toCategory(id int64) core.Category {
	return core.Category{
		ID:        id,
		Name:      sanitizeInput(req.Name),
		Type:      core.CategoryType(req.Type),
		Color:     sanitizeInput(req.Color),
		SortOrder: req.SortOrder,
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if raw := r.URL.Query().Get("type"); raw != "" {
		ct, err := core.ParseCategoryType(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filtered := make([]core.Category, 0, len(categories))
		for _, c := range categories {
			if c.Type == ct {
				filtered = append(filtered, c)
			}
		}
		categories = filtered
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	category := req.toCategory(0)
	if err := category.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateCategory(r.Context(), category)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	category := req.toCategory(id)
	if err := category.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateCategory(r.Context(), category)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

type accountRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	CategoryID  int64  `json:"category_id"`
	Subcategory string `json:"subcategory"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

func (req accountRequest) toAccount(id int64) core.Account {
	status := req.Status
	if status == "" {
		status = string(core.AccountActive)
	}
	return core.Account{
		ID:          id,
		Code:        sanitizeInput(req.Code),
		Name:        sanitizeInput(req.Name),
		CategoryID:  req.CategoryID,
		Subcategory: sanitizeInput(req.Subcategory),
		Status:      core.AccountStatus(status),
		Notes:       sanitizeInput(req.Notes),
	}
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSONError(w, http.StatusBadRequest, "invalid category_id filter")
			return
		}
		filtered := make([]core.Account, 0, len(accounts))
		for _, a := range accounts {
			if a.CategoryID == id {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}
	if raw := q.Get("status"); raw != "" {
		st, err := core.ParseAccountStatus(raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filtered := make([]core.Account, 0, len(accounts))
		for _, a := range accounts {
			if a.Status == st {
				filtered = append(filtered, a)
			}
		}
		accounts = filtered
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account := req.toAccount(0)
	if err := account.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateAccount(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account := req.toAccount(id)
	if err := account.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateAccount(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	if err := s.store.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	w.WriteHeader(http.StatusNoContent)
}

type periodRequest struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

func (s *Server) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.store.ListPeriods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	period := core.Period{
		Code:      sanitizeInput(req.Code),
		Label:     sanitizeInput(req.Label),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	}
	if err := period.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreatePeriod(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateSummaries()
	writeJSON(w, http.StatusCreated, created)
}

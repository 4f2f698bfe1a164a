package http

import (
	"net/http"

	"ledgerboard/internal/core"
)

type kpiRequest struct {
	Name         string     `json:"name"`
	GroupName    string     `json:"group_name"`
	Unit         string     `json:"unit"`
	TargetValue  core.Money `json:"target_value"`
	CurrentValue core.Money `json:"current_value"`
	Period       string     `json:"period"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes"`
}

func (req kpiRequest) toKPI(id int64) core.KPIMetric {
	return core.KPIMetric{
		ID:           id,
		Name:         sanitizeInput(req.Name),
		GroupName:    sanitizeInput(req.GroupName),
		Unit:         sanitizeInput(req.Unit),
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Period:       req.Period,
		Status:       sanitizeInput(req.Status),
		Notes:        sanitizeInput(req.Notes),
	}
}

func (s *Server) handleListKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.store.ListKPIs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	period, group, status := q.Get("period"), q.Get("group"), q.Get("status")
	if period != "" || group != "" || status != "" {
		filtered := make([]core.KPIMetric, 0, len(kpis))
		for _, k := range kpis {
			if period != "" && k.Period != period {
				continue
			}
			if group != "" && k.GroupName != group {
				continue
			}
			if status != "" && k.Status != status {
				continue
			}
			filtered = append(filtered, k)
		}
		kpis = filtered
	}
	writeJSON(w, http.StatusOK, kpis)
}

func (s *Server) handleCreateKPI(w http.ResponseWriter, r *http.Request) {
	var req kpiRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	kpi := req.toKPI(0)
	if err := kpi.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateKPI(r.Context(), kpi)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateKPI(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid kpi id")
		return
	}

	var req kpiRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	kpi := req.toKPI(id)
	if err := kpi.Validate(); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateKPI(r.Context(), kpi)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteKPI(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid kpi id")
		return
	}

	if err := s.store.DeleteKPI(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"tirelire/internal/core"
)

// handleGetData returns the full document, reloaded through the gateway so
// external edits to the snapshot are picked up.
func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.Document(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// handleReplaceData replaces and persists the full document.
func (s *Server) handleReplaceData(w http.ResponseWriter, r *http.Request) {
	var doc core.Document
	if err := decodeBody(r, &doc); err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.service.ReplaceDocument(r.Context(), &doc); err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, nil)
}

func (s *Server) handleSetSalary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Salary string `json:"salary"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	salary, err := parseAmountAllowZero(req.Salary)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.service.SetSalary(r.Context(), salary); err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{"salary": salary})
}

func (s *Server) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.GlobalStats())
}

func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.CategoryStats(r.PathValue("category"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

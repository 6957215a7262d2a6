package http

import (
	"net/http"
)

type categoryRequest struct {
	Key    string `json:"key,omitempty"`
	Name   string `json:"name"`
	Budget string `json:"budget"`
	Color  string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	doc := s.service.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{"categories": doc.Categories})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	budget, err := parseAmountAllowZero(req.Budget)
	if err != nil {
		respondError(w, r, err)
		return
	}
	cat, err := s.service.AddCategory(r.Context(), req.Key, sanitizeInput(req.Name), budget, req.Color)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{"category": cat})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	budget, err := parseAmountAllowZero(req.Budget)
	if err != nil {
		respondError(w, r, err)
		return
	}
	cat, err := s.service.UpdateCategory(r.Context(), r.PathValue("key"), sanitizeInput(req.Name), budget, req.Color)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{"category": cat})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteCategory(r.Context(), r.PathValue("key")); err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, nil)
}

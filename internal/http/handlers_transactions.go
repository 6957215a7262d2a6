package http

import (
	"net/http"
)

type transactionRequest struct {
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	tx, err := s.service.CreateTransaction(r.Context(), req.Category, amount, sanitizeInput(req.Description))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{"transaction": tx})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id := r.PathValue("id")
	if err := s.service.UpdateTransaction(r.Context(), id, req.Category, amount, sanitizeInput(req.Description)); err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, nil)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, nil)
}

func (s *Server) handleFilterTransactions(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	term := r.URL.Query().Get("q")
	txs := s.service.FilterTransactions(category, term)
	respondJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.service.RecentTransactions(parseLimit(r, 3))
	respondJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (s *Server) handleTopTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.service.TopTransactions(parseLimit(r, 5))
	respondJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

package http

import (
	"net/http"
	"time"

	"tirelire/internal/core"
)

type recurringRequest struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	Day       int    `json:"day"`
	Active    *bool  `json:"active,omitempty"`
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	defs := s.service.ListRecurring()
	respondJSON(w, http.StatusOK, map[string]any{"recurringTransactions": defs})
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	def, err := s.service.AddRecurring(r.Context(), sanitizeInput(req.Name), req.Category,
		amount, core.Frequency(req.Frequency), req.Day, active)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{"recurringTransaction": def})
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRecurring(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, nil)
}

func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request) {
	def, err := s.service.ToggleRecurring(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{"recurringTransaction": def})
}

// handleProcessRecurring is the admin trigger for an immediate
// materialization run.
func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.ProcessRecurring(r.Context(), time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{
		"processed": result.Count(),
		"orphaned":  result.Orphaned,
	})
}

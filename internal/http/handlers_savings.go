package http

import (
	"net/http"
	"time"
)

type goalRequest struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Deadline string `json:"deadline"`
	Current  string `json:"current,omitempty"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.service.ListGoals()
	respondJSON(w, http.StatusOK, map[string]any{"savingsGoals": goals})
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	target, err := parseAmount(req.Target)
	if err != nil {
		respondError(w, r, err)
		return
	}
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		respondError(w, r, err)
		return
	}
	current, err := parseOptionalAmount(req.Current)
	if err != nil {
		respondError(w, r, err)
		return
	}
	goal, err := s.service.AddGoal(r.Context(), sanitizeInput(req.Name), target, deadline, current)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{"goal": goal})
}

func (s *Server) handleContributeToGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount string `json:"amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	goal, justCompleted, err := s.service.ContributeToGoal(r.Context(), r.PathValue("id"), amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{
		"goal":          goal,
		"justCompleted": justCompleted,
	})
}

// handleEditGoal sets the goal's balance absolutely.
func (s *Server) handleEditGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Current string `json:"current"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	current, err := parseAmountAllowZero(req.Current)
	if err != nil {
		respondError(w, r, err)
		return
	}
	goal, justCompleted, err := s.service.EditGoal(r.Context(), r.PathValue("id"), current)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, map[string]any{
		"goal":          goal,
		"justCompleted": justCompleted,
	})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondSuccess(w, nil)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.service.GoalProgress(r.PathValue("id"), time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

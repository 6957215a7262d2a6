package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tirelire/internal/core"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondSuccess writes the standard success envelope, merging extra fields
// next to "success": true.
func respondSuccess(w http.ResponseWriter, extra map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range extra {
		payload[k] = v
	}
	respondJSON(w, http.StatusOK, payload)
}

// respondError maps domain errors onto status codes: validation failures to
// 422, missing entities to 404, anything else to 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrValidation):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
	}
	respondJSON(w, status, map[string]any{"error": err.Error()})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// requirePrincipal extracts the authenticated principal placed by the guard.
// Reaching a guarded handler without one is a wiring bug, not a client error.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve principal from context")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return p, ok
}

// respondError maps a domain error to its fixed status code. Anything outside
// the taxonomy is a 500.
func respondError(w http.ResponseWriter, err error) {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": validation.Error()})
	case errors.Is(err, models.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	case errors.Is(err, models.ErrDuplicateEmail):
		respondJSON(w, http.StatusConflict, map[string]string{"error": "Email already registered"})
	case errors.Is(err, models.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	default:
		log.Error().Err(err).Msg("Unhandled error")
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

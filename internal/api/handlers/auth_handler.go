package handlers

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
	"github.com/taskdeck/taskdeck-be/internal/services"
)

// AuthHandler handles HTTP requests for registration, login and the current
// user's profile.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration payload against its field constraints.
func (p *RegisterPayload) Validate() error {
	if n := utf8.RuneCountInString(p.Name); n < 1 || n > 50 {
		return models.NewValidationError("name", "must be 1-50 characters")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return models.NewValidationError("email", "must be a valid email address")
	}
	if len(p.Password) < 8 {
		return models.NewValidationError("password", "must be at least 8 characters")
	}
	return nil
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfilePayload defines the structure for profile patch requests.
type UpdateProfilePayload struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Validate checks the patch against the same constraints as registration.
func (p *UpdateProfilePayload) Validate() error {
	if p.Name != nil {
		if n := utf8.RuneCountInString(*p.Name); n < 1 || n > 50 {
			return models.NewValidationError("name", "must be 1-50 characters")
		}
	}
	if p.Email != nil {
		if _, err := mail.ParseAddress(*p.Email); err != nil {
			return models.NewValidationError("email", "must be a valid email address")
		}
	}
	return nil
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	token, user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me retrieves the currently authenticated user with task statistics.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), principal)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateMe applies a partial profile update for the authenticated user.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var payload UpdateProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.service.UpdateCurrentUser(r.Context(), principal, repository.UpdateUserParams{
		Name:  payload.Name,
		Email: payload.Email,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", principal.ID).Msg("Failed to update profile")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

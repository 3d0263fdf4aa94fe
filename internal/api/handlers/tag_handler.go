package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
	"github.com/taskdeck/taskdeck-be/internal/services"
)

// TagHandler handles HTTP requests for tag management.
type TagHandler struct {
	service services.TagServiceProvider
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(service services.TagServiceProvider) *TagHandler {
	return &TagHandler{service: service}
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// TagPayload defines the structure for tag create and update requests.
type TagPayload struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

// Validate checks the payload against the declared field constraints.
func (p *TagPayload) Validate() error {
	if n := utf8.RuneCountInString(p.Name); n < 1 || n > 50 {
		return models.NewValidationError("name", "must be 1-50 characters")
	}
	if p.Color != nil && !hexColor.MatchString(*p.Color) {
		return models.NewValidationError("color", "must be a valid hex color code")
	}
	return nil
}

// batchPayload is the {tags: [...]} form of the create endpoint.
type batchPayload struct {
	Tags []TagPayload `json:"tags"`
}

// List handles the request for all of the owner's tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	tags, err := h.service.List(r.Context(), principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

// Get handles retrieving a single tag by id.
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	tag, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if tag == nil {
		respondError(w, models.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// Create handles tag creation, accepting either a single tag body or a
// {tags: [...]} batch. The batch is created sequentially and is not atomic.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	// The 'tags' property distinguishes a batch from a single creation.
	var batch batchPayload
	if err := json.Unmarshal(body, &batch); err == nil && batch.Tags != nil {
		if len(batch.Tags) == 0 {
			respondError(w, models.NewValidationError("tags", "must contain at least one tag"))
			return
		}
		params := make([]repository.CreateTagParams, 0, len(batch.Tags))
		for _, p := range batch.Tags {
			if err := p.Validate(); err != nil {
				respondError(w, err)
				return
			}
			params = append(params, repository.CreateTagParams{Name: p.Name, Color: p.Color})
		}
		tags, err := h.service.CreateMany(r.Context(), params, principal.ID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, tags)
		return
	}

	var payload TagPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(w, err)
		return
	}

	tag, err := h.service.Create(r.Context(), repository.CreateTagParams{Name: payload.Name, Color: payload.Color}, principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

// Update handles partial tag updates.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var payload struct {
		Name  *string `json:"name,omitempty"`
		Color *string `json:"color,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if payload.Name != nil {
		if n := utf8.RuneCountInString(*payload.Name); n < 1 || n > 50 {
			respondError(w, models.NewValidationError("name", "must be 1-50 characters"))
			return
		}
	}
	if payload.Color != nil && !hexColor.MatchString(*payload.Color) {
		respondError(w, models.NewValidationError("color", "must be a valid hex color code"))
		return
	}

	tag, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), repository.UpdateTagParams{
		Name:  payload.Name,
		Color: payload.Color,
	}, principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if tag == nil {
		respondError(w, models.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// Delete handles tag deletion, returning the deleted tag.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	tag, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if tag == nil {
		respondError(w, models.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

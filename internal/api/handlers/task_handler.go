package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
	"github.com/taskdeck/taskdeck-be/internal/services"
)

// TaskHandler handles HTTP requests for task management.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTaskPayload defines the structure for task creation requests.
type CreateTaskPayload struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	TagIDs      []string   `json:"tagIds,omitempty"`
}

// Validate checks the payload against the declared field constraints.
func (p *CreateTaskPayload) Validate() error {
	if n := utf8.RuneCountInString(p.Title); n < 1 || n > 50 {
		return models.NewValidationError("title", "must be 1-50 characters")
	}
	if n := utf8.RuneCountInString(p.Description); n < 1 || n > 256 {
		return models.NewValidationError("description", "must be 1-256 characters")
	}
	if !models.Priority(p.Priority).Valid() {
		return models.NewValidationError("priority", "must be one of high, medium, low")
	}
	return nil
}

// UpdateTaskPayload defines the structure for partial task updates. Omitted
// fields are untouched; a present tagIds replaces the full association set.
type UpdateTaskPayload struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	TagIDs      []string   `json:"tagIds,omitempty"`
}

// Validate checks present fields against the same constraints as creation.
func (p *UpdateTaskPayload) Validate() error {
	if p.Title != nil {
		if n := utf8.RuneCountInString(*p.Title); n < 1 || n > 50 {
			return models.NewValidationError("title", "must be 1-50 characters")
		}
	}
	if p.Description != nil {
		if n := utf8.RuneCountInString(*p.Description); n < 1 || n > 256 {
			return models.NewValidationError("description", "must be 1-256 characters")
		}
	}
	if p.Priority != nil && !models.Priority(*p.Priority).Valid() {
		return models.NewValidationError("priority", "must be one of high, medium, low")
	}
	return nil
}

// parseListQuery binds and validates the list query parameters.
func parseListQuery(r *http.Request) (repository.ListTasksParams, error) {
	params := repository.ListTasksParams{
		Limit: services.DefaultTaskLimit,
		Order: models.OrderCreatedDesc,
		TagID: r.URL.Query().Get("tagId"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > services.MaxTaskLimit {
			return params, models.NewValidationError("limit", "must be an integer between 1 and 25")
		}
		params.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return params, models.NewValidationError("offset", "must be a non-negative integer")
		}
		params.Offset = offset
	}
	if raw := r.URL.Query().Get("order"); raw != "" {
		order := models.TaskOrder(raw)
		if !order.Valid() {
			return params, models.NewValidationError("order", "unknown ordering")
		}
		params.Order = order
	}
	return params, nil
}

// List handles the request for the owner's tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	params, err := parseListQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	tasks, err := h.service.List(r.Context(), principal.ID, params)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Get handles retrieving a single task by id.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Create handles task creation.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var payload CreateTaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), repository.CreateTaskParams{
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    models.Priority(payload.Priority),
		Deadline:    payload.Deadline,
		TagIDs:      payload.TagIDs,
	}, principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// Update handles partial task updates.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var payload UpdateTaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := payload.Validate(); err != nil {
		respondError(w, err)
		return
	}

	params := repository.UpdateTaskParams{
		Title:       payload.Title,
		Description: payload.Description,
		Completed:   payload.Completed,
		Deadline:    payload.Deadline,
		TagIDs:      payload.TagIDs,
	}
	if payload.Priority != nil {
		priority := models.Priority(*payload.Priority)
		params.Priority = &priority
	}

	task, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), params, principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Delete handles task deletion, returning the deleted task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	task, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

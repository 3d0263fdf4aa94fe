package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
)

// Task list defaults applied when the caller leaves a parameter unset.
const (
	DefaultTaskLimit = 10
	MaxTaskLimit     = 25
)

// TaskServiceProvider defines the interface for task services.
type TaskServiceProvider interface {
	List(ctx context.Context, ownerID string, params repository.ListTasksParams) ([]models.Task, error)
	Get(ctx context.Context, id, ownerID string) (models.Task, error)
	Create(ctx context.Context, params repository.CreateTaskParams, ownerID string) (models.Task, error)
	Update(ctx context.Context, id string, params repository.UpdateTaskParams, ownerID string) (models.Task, error)
	Delete(ctx context.Context, id, ownerID string) (models.Task, error)
}

// TaskService provides business logic for task management.
type TaskService struct {
	tasks    repository.TaskRepository
	eventSvc EventServiceProvider
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks repository.TaskRepository, eventSvc EventServiceProvider) *TaskService {
	return &TaskService{tasks: tasks, eventSvc: eventSvc}
}

// List returns the owner's tasks. Unset pagination and ordering fall back to
// limit 10, offset 0, created_desc.
func (s *TaskService) List(ctx context.Context, ownerID string, params repository.ListTasksParams) ([]models.Task, error) {
	if params.Limit == 0 {
		params.Limit = DefaultTaskLimit
	}
	if params.Order == "" {
		params.Order = models.OrderCreatedDesc
	}
	return s.tasks.ListByOwner(ctx, ownerID, params)
}

// Get returns the task matching both id and owner. A missing row and a row
// owned by someone else are the same NotFound.
func (s *TaskService) Get(ctx context.Context, id, ownerID string) (models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id, ownerID)
	if err != nil {
		return models.Task{}, err
	}
	if task == nil {
		return models.Task{}, models.ErrNotFound
	}
	return *task, nil
}

// Create persists a new task with its optional tag associations.
func (s *TaskService) Create(ctx context.Context, params repository.CreateTaskParams, ownerID string) (models.Task, error) {
	task, err := s.tasks.Create(ctx, params, ownerID)
	if err != nil {
		return models.Task{}, err
	}
	s.record(ctx, "task.created", fmt.Sprintf("Task %q created", task.Title), task)
	return *task, nil
}

// Update applies a partial update; omitted fields are untouched and a non-nil
// tag id set replaces the full association set.
func (s *TaskService) Update(ctx context.Context, id string, params repository.UpdateTaskParams, ownerID string) (models.Task, error) {
	task, err := s.tasks.Update(ctx, id, params, ownerID)
	if err != nil {
		return models.Task{}, err
	}
	if task == nil {
		return models.Task{}, models.ErrNotFound
	}

	eventType := "task.updated"
	message := fmt.Sprintf("Task %q updated", task.Title)
	if params.Completed != nil && *params.Completed {
		eventType = "task.completed"
		message = fmt.Sprintf("Task %q completed", task.Title)
	}
	s.record(ctx, eventType, message, task)
	return *task, nil
}

// Delete removes the task matching both id and owner and returns it.
func (s *TaskService) Delete(ctx context.Context, id, ownerID string) (models.Task, error) {
	task, err := s.tasks.Delete(ctx, id, ownerID)
	if err != nil {
		return models.Task{}, err
	}
	if task == nil {
		return models.Task{}, models.ErrNotFound
	}
	s.record(ctx, "task.deleted", fmt.Sprintf("Task %q deleted", task.Title), task)
	return *task, nil
}

// record logs the activity event; a failed event never fails the mutation.
func (s *TaskService) record(ctx context.Context, eventType, message string, task *models.Task) {
	if err := s.eventSvc.Record(ctx, eventType, "info", message, task.OwnerID, &task.ID); err != nil {
		log.Warn().Err(err).Str("task_id", task.ID).Msg("Failed to record task event")
	}
}

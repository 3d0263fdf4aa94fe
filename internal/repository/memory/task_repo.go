package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository"
)

// TaskRepo is the in-memory TaskRepository.
type TaskRepo struct {
	s *Store
}

// ListByOwner returns the owner's tasks with pagination, ordering and the
// optional tag filter applied.
func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID string, params repository.ListTasksParams) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := []models.Task{}
	for _, task := range r.s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if params.TagID != "" && !r.s.taskTags[task.ID][params.TagID] {
			continue
		}
		task.Tags = r.s.tagsForTask(task.ID)
		tasks = append(tasks, task)
	}
	sortTasks(tasks, params.Order)

	if params.Offset >= len(tasks) {
		return []models.Task{}, nil
	}
	tasks = tasks[params.Offset:]
	if params.Limit < len(tasks) {
		tasks = tasks[:params.Limit]
	}
	return tasks, nil
}

// sortTasks orders tasks exactly like the sqlite ORDER BY clauses: deadline
// sorts put null deadlines last, deadline and priority sorts tie-break on
// creation time descending.
func sortTasks(tasks []models.Task, order models.TaskOrder) {
	byCreatedDesc := func(a, b models.Task) bool { return a.CreatedAt.After(b.CreatedAt) }

	switch order {
	case models.OrderCreatedAsc:
		sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	case models.OrderDeadlineAsc, models.OrderDeadlineDesc:
		asc := order == models.OrderDeadlineAsc
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i], tasks[j]
			if (a.Deadline == nil) != (b.Deadline == nil) {
				return b.Deadline == nil // nulls last
			}
			if a.Deadline != nil && !a.Deadline.Equal(*b.Deadline) {
				if asc {
					return a.Deadline.Before(*b.Deadline)
				}
				return a.Deadline.After(*b.Deadline)
			}
			return byCreatedDesc(a, b)
		})
	case models.OrderPriorityAsc, models.OrderPriorityDesc:
		asc := order == models.OrderPriorityAsc
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i], tasks[j]
			if a.Priority != b.Priority {
				if asc {
					return a.Priority.Rank() < b.Priority.Rank()
				}
				return a.Priority.Rank() > b.Priority.Rank()
			}
			return byCreatedDesc(a, b)
		})
	default: // created_desc
		sort.SliceStable(tasks, func(i, j int) bool { return byCreatedDesc(tasks[i], tasks[j]) })
	}
}

// FindByID returns the task matching both id and owner, or nil.
func (r *TaskRepo) FindByID(ctx context.Context, id, ownerID string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.findLocked(id, ownerID), nil
}

// findLocked resolves a scoped task with tags. Callers must hold s.mu.
func (r *TaskRepo) findLocked(id, ownerID string) *models.Task {
	task, ok := r.s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil
	}
	task.Tags = r.s.tagsForTask(id)
	return &task
}

// Create persists a new task, connecting existing same-owner tags only.
func (r *TaskRepo) Create(ctx context.Context, params repository.CreateTaskParams, ownerID string) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	task := models.Task{
		ID:          uuid.New().String(),
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Deadline:    params.Deadline,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.tasks[task.ID] = task
	r.connectLocked(task.ID, params.TagIDs, ownerID)
	return r.findLocked(task.ID, ownerID), nil
}

// Update applies a partial update to the task matching both id and owner.
func (r *TaskRepo) Update(ctx context.Context, id string, params repository.UpdateTaskParams, ownerID string) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task, ok := r.s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, nil
	}
	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.Completed != nil {
		task.Completed = *params.Completed
	}
	if params.Deadline != nil {
		task.Deadline = params.Deadline
	}
	task.UpdatedAt = time.Now().UTC()
	r.s.tasks[id] = task

	if params.TagIDs != nil {
		delete(r.s.taskTags, id)
		r.connectLocked(id, params.TagIDs, ownerID)
	}
	return r.findLocked(id, ownerID), nil
}

// Delete removes the task matching both id and owner and returns it.
func (r *TaskRepo) Delete(ctx context.Context, id, ownerID string) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task := r.findLocked(id, ownerID)
	if task == nil {
		return nil, nil
	}
	delete(r.s.tasks, id)
	delete(r.s.taskTags, id)
	return task, nil
}

// CountByOwner returns the owner's total and completed task counts.
func (r *TaskRepo) CountByOwner(ctx context.Context, ownerID string) (total, completed int, err error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, task := range r.s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		total++
		if task.Completed {
			completed++
		}
	}
	return total, completed, nil
}

// ListDueSoon returns incomplete, not-yet-reminded tasks due within the window.
func (r *TaskRepo) ListDueSoon(ctx context.Context, within time.Duration) ([]models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	now := time.Now().UTC()
	cutoff := now.Add(within)
	due := []models.Task{}
	for _, task := range r.s.tasks {
		if task.Completed || task.Deadline == nil || r.s.reminded[task.ID] {
			continue
		}
		if task.Deadline.Before(now) || task.Deadline.After(cutoff) {
			continue
		}
		due = append(due, task)
	}
	return due, nil
}

// MarkReminded records that a deadline reminder was emitted for the task.
func (r *TaskRepo) MarkReminded(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reminded[id] = true
	return nil
}

// connectLocked associates existing same-owner tags. Callers must hold s.mu.
func (r *TaskRepo) connectLocked(taskID string, tagIDs []string, ownerID string) {
	for _, tagID := range tagIDs {
		tag, ok := r.s.tags[tagID]
		if !ok || tag.OwnerID != ownerID {
			continue
		}
		if r.s.taskTags[taskID] == nil {
			r.s.taskTags[taskID] = make(map[string]bool)
		}
		r.s.taskTags[taskID][tagID] = true
	}
}

package client

import (
	"context"
	"sort"
	"sync"

	"github.com/taskdeck/taskdeck-be/internal/models"
)

// TaskStore is a client-side cache of the user's tasks that applies mutations
// optimistically: the local state changes first, and a failed API call runs an
// explicit compensating action restoring the previous state.
type TaskStore struct {
	api *Client

	mu    sync.RWMutex
	tasks map[string]models.Task
}

// NewTaskStore creates a TaskStore backed by the given API client.
func NewTaskStore(api *Client) *TaskStore {
	return &TaskStore{api: api, tasks: make(map[string]models.Task)}
}

// Refresh replaces the cache with the server's current task page.
func (s *TaskStore) Refresh(ctx context.Context, opts ListOptions) error {
	tasks, err := s.api.ListTasks(ctx, opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[string]models.Task, len(tasks))
	for _, task := range tasks {
		s.tasks[task.ID] = task
	}
	return nil
}

// Tasks returns the cached tasks, newest first.
func (s *TaskStore) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks
}

// Get returns a cached task by id.
func (s *TaskStore) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	return task, ok
}

// SetCompleted toggles a task's completed flag optimistically. On API failure
// the compensating action restores the cached task.
func (s *TaskStore) SetCompleted(ctx context.Context, id string, completed bool) error {
	s.mu.Lock()
	previous, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return models.ErrNotFound
	}
	optimistic := previous
	optimistic.Completed = completed
	s.tasks[id] = optimistic
	s.mu.Unlock()

	updated, err := s.api.UpdateTask(ctx, id, TaskInput{Completed: &completed})
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.tasks[id] = previous // rollback
		return err
	}
	s.tasks[id] = updated
	return nil
}

// Delete removes a task optimistically. On API failure the compensating
// action reinserts the removed task.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	previous, ok := s.tasks[id]
	if !ok {
		s.mu.Unlock()
		return models.ErrNotFound
	}
	delete(s.tasks, id)
	s.mu.Unlock()

	if err := s.api.DeleteTask(ctx, id); err != nil {
		s.mu.Lock()
		s.tasks[id] = previous // rollback
		s.mu.Unlock()
		return err
	}
	return nil
}

// Create sends the creation to the API and inserts the server's task into the
// cache. Creation is not optimistic: the server assigns the id.
func (s *TaskStore) Create(ctx context.Context, input TaskInput) (models.Task, error) {
	task, err := s.api.CreateTask(ctx, input)
	if err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return task, nil
}

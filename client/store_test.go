package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// fakeAPI is a minimal task endpoint whose mutations can be forced to fail.
type fakeAPI struct {
	failing atomic.Bool
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.failing.Load() {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Task not found"})
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/tasks/")
		switch r.Method {
		case http.MethodPut:
			var input TaskInput
			json.NewDecoder(r.Body).Decode(&input)
			task := models.Task{ID: id, Title: "cached", CreatedAt: time.Now()}
			if input.Completed != nil {
				task.Completed = *input.Completed
			}
			json.NewEncoder(w).Encode(task)
		case http.MethodDelete:
			json.NewEncoder(w).Encode(models.Task{ID: id})
		case http.MethodPost:
			var input TaskInput
			json.NewDecoder(r.Body).Decode(&input)
			task := models.Task{ID: "server-id", CreatedAt: time.Now()}
			if input.Title != nil {
				task.Title = *input.Title
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(task)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestStore(t *testing.T) (*TaskStore, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewTaskStore(New(srv.URL)), api
}

func seed(s *TaskStore, task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
}

func TestSetCompletedOptimistic(t *testing.T) {
	store, _ := newTestStore(t)
	seed(store, models.Task{ID: "t1", Title: "cached", Completed: false})

	err := store.SetCompleted(context.Background(), "t1", true)
	require.NoError(t, err)

	task, ok := store.Get("t1")
	require.True(t, ok)
	assert.True(t, task.Completed)
}

func TestSetCompletedRollsBackOnFailure(t *testing.T) {
	store, api := newTestStore(t)
	seed(store, models.Task{ID: "t1", Title: "cached", Completed: false})
	api.failing.Store(true)

	err := store.SetCompleted(context.Background(), "t1", true)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The compensating action restored the previous state.
	task, ok := store.Get("t1")
	require.True(t, ok)
	assert.False(t, task.Completed)
}

func TestDeleteRollsBackOnFailure(t *testing.T) {
	store, api := newTestStore(t)
	seed(store, models.Task{ID: "t1", Title: "cached"})

	t.Run("failure reinserts", func(t *testing.T) {
		api.failing.Store(true)
		err := store.Delete(context.Background(), "t1")
		assert.ErrorIs(t, err, models.ErrNotFound)

		_, ok := store.Get("t1")
		assert.True(t, ok)
	})

	t.Run("success removes", func(t *testing.T) {
		api.failing.Store(false)
		err := store.Delete(context.Background(), "t1")
		require.NoError(t, err)

		_, ok := store.Get("t1")
		assert.False(t, ok)
	})
}

func TestDeleteUnknownTask(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateInsertsServerTask(t *testing.T) {
	store, _ := newTestStore(t)

	title := "new task"
	task, err := store.Create(context.Background(), TaskInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "server-id", task.ID)

	cached, ok := store.Get("server-id")
	require.True(t, ok)
	assert.Equal(t, "new task", cached.Title)
}

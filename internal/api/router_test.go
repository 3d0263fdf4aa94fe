package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/repository/memory"
	"github.com/taskdeck/taskdeck-be/internal/services"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store := memory.NewStore()
	tokens := auth.NewManager("test-secret", time.Hour)
	eventSvc := services.NewEventService(store.Events(), nil)

	return NewRouter(RouterDeps{
		Tokens:         tokens,
		AuthService:    services.NewAuthService(store.Users(), store.Tasks(), tokens),
		TaskService:    services.NewTaskService(store.Tasks(), eventSvc),
		TagService:     services.NewTagService(store.Tags(), eventSvc),
		EventService:   eventSvc,
		AllowedOrigins: []string{"*"},
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func register(t *testing.T, router http.Handler, name, email, password string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	router := newTestRouter(t)

	register(t, router, "Jane", "jane@x.com", "pw123456")

	t.Run("wrong password is rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "jane@x.com", "password": "wrongpass",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	token := login(t, router, "jane@x.com", "pw123456")

	t.Run("empty task list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/tasks", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var tasks []models.Task
		decode(t, rec, &tasks)
		assert.Empty(t, tasks)
	})

	t.Run("me reports task counts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var me models.EnrichedUser
		decode(t, rec, &me)
		assert.Equal(t, "jane@x.com", me.Email)
		assert.Equal(t, 0, me.TotalTasks)
	})
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := map[string]map[string]string{
		"empty name":     {"name": "", "email": "a@x.com", "password": "pw123456"},
		"bad email":      {"name": "Jane", "email": "not-an-email", "password": "pw123456"},
		"short password": {"name": "Jane", "email": "a@x.com", "password": "short"},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/auth/register", "", payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	router := newTestRouter(t)

	register(t, router, "Jane", "jane@x.com", "pw123456")

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Impostor", "email": "jane@x.com", "password": "pw654321",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGuardedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/tasks", "/tags", "/events", "/auth/me"} {
		t.Run(path, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "Jane", "jane@x.com", "pw123456")
	token := login(t, router, "jane@x.com", "pw123456")

	rec := doJSON(t, router, http.MethodPost, "/tasks", token, map[string]interface{}{
		"title": "Buy milk", "description": "2 liters", "priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Task
	decode(t, rec, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.PriorityHigh, created.Priority)
	assert.False(t, created.Completed)

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got models.Task
		decode(t, rec, &got)
		assert.Equal(t, "Buy milk", got.Title)
	})

	t.Run("complete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/tasks/"+created.ID, token, map[string]interface{}{
			"completed": true,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated models.Task
		decode(t, rec, &updated)
		assert.True(t, updated.Completed)
		assert.Equal(t, "Buy milk", updated.Title)
	})

	t.Run("validation", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/tasks", token, map[string]interface{}{
			"title": "", "description": "d", "priority": "high",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/tasks", token, map[string]interface{}{
			"title": "t", "description": "d", "priority": "urgent",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete returns the task", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/tasks/"+created.ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCrossTenantAccessIsNotFound(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "Jane", "jane@x.com", "pw123456")
	register(t, router, "John", "john@x.com", "pw123456")
	janeToken := login(t, router, "jane@x.com", "pw123456")
	johnToken := login(t, router, "john@x.com", "pw123456")

	rec := doJSON(t, router, http.MethodPost, "/tasks", janeToken, map[string]interface{}{
		"title": "private", "description": "d", "priority": "low",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task models.Task
	decode(t, rec, &task)

	t.Run("task", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/tasks/"+task.ID, johnToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doJSON(t, router, http.MethodDelete, "/tasks/"+task.ID, johnToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	rec = doJSON(t, router, http.MethodPost, "/tags", janeToken, map[string]string{"name": "work"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var tag models.Tag
	decode(t, rec, &tag)

	t.Run("tag", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/tags/"+tag.ID, johnToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTagBatchCreate(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "Jane", "jane@x.com", "pw123456")
	token := login(t, router, "jane@x.com", "pw123456")

	rec := doJSON(t, router, http.MethodPost, "/tags", token, map[string]interface{}{
		"tags": []map[string]string{
			{"name": "work", "color": "#FF0000"},
			{"name": "home"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var tags []models.Tag
	decode(t, rec, &tags)
	require.Len(t, tags, 2)
	assert.Equal(t, "work", tags[0].Name)

	t.Run("empty batch is invalid", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/tags", token, map[string]interface{}{
			"tags": []map[string]string{},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad color is invalid", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/tags", token, map[string]string{
			"name": "x", "color": "red",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEventsFeed(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "Jane", "jane@x.com", "pw123456")
	token := login(t, router, "jane@x.com", "pw123456")

	rec := doJSON(t, router, http.MethodPost, "/tasks", token, map[string]interface{}{
		"title": "t", "description": "d", "priority": "low",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/events", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []models.Event
	decode(t, rec, &events)
	require.NotEmpty(t, events)
	assert.Equal(t, "task.created", events[0].Type)
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Generate(models.SafeUser{ID: "u1", Name: "Jane", Email: "jane@x.com"})
	require.NoError(t, err)

	principal, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.ID)
	assert.Equal(t, "jane@x.com", principal.Email)
}

func TestValidateExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Generate(models.SafeUser{ID: "u1", Email: "jane@x.com"})
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestValidateWrongSecret(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	other := NewManager("other-secret", time.Hour)

	token, err := m.Generate(models.SafeUser{ID: "u1", Email: "jane@x.com"})
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	var got models.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		require.True(t, ok)
		got = principal
		w.WriteHeader(http.StatusOK)
	})
	guarded := m.Middleware()(next)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := m.Generate(models.SafeUser{ID: "u1", Email: "jane@x.com"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", got.ID)
	})
}

package api

import (
	"net/http"
	"testing"

	"github.com/promptozer/promptozer/internal/api/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_CreatesThenReturnsSameUser(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	first := decode[dto.UserResponse](t, resp).Data
	assert.Equal(t, "alice", first.Name)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=alice%40example.com", first.Avatar)
	assert.NotZero(t, first.CreatedAt)

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{"email": "ALICE@example.com"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, first.ID, decode[dto.UserResponse](t, resp).Data.ID)
}

func TestLogin_BlankEmail(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{"email": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestLogin_MissingBodyField(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t, Options{AuthRatePerMinute: 1, AuthRateBurst: 2})

	for range 2 {
		resp := ts.api.Post("/api/v1/auth/login", map[string]any{"email": "bob@example.com"})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{"email": "bob@example.com"})
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decode[any](t, resp).Code)

	// Other routes are not throttled.
	assert.Equal(t, http.StatusOK, ts.api.Get("/health").Code)
}

func TestGetUser(t *testing.T) {
	ts := setupTestServer(t)
	userID := ts.login(t, "carol@example.com")

	resp := ts.api.Get("/api/v1/users/" + userID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "carol@example.com", decode[dto.UserResponse](t, resp).Data.Email)

	resp = ts.api.Get("/api/v1/users/user-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	env := decode[any](t, resp)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "user user-missing not found", env.Message)
}

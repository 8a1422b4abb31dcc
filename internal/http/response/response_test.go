package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	JSON(w, http.StatusOK, OK(map[string]string{"id": "prompt-1"}), logger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var got Decode
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, Version, got.Version)
	assert.True(t, got.Success)
	assert.JSONEq(t, `{"id":"prompt-1"}`, string(got.Data))
	assert.Empty(t, got.Error)
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusTooManyRequests, "RATE_LIMITED", "slow down", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "slow down", got["error"])
	assert.Equal(t, "RATE_LIMITED", got["code"])
	assert.NotContains(t, got, "data")
	assert.NotContains(t, got, "details")
}

func TestEnvelope_VersionFieldName(t *testing.T) {
	data, err := json.Marshal(OK(nil))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Contains(t, got, "v")
	assert.NotContains(t, got, "version")
}

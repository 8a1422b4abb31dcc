package api

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/promptozer/promptozer/internal/identity"
	"github.com/promptozer/promptozer/internal/service"
	"github.com/promptozer/promptozer/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*Server
	api  humatest.TestAPI
	repo *sqlite.Store
}

// testEnvelope mirrors response.Envelope with a typed payload.
type testEnvelope[T any] struct {
	Version int             `json:"v"`
	Success bool            `json:"success"`
	Data    T               `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

// setupTestServer creates a test server over a temporary SQLite database.
func setupTestServer(t *testing.T, opts ...Options) *testServer {
	t.Helper()

	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)

	services := &Services{
		Auth:   service.NewAuthService(identity.NewResolver(repo, nil), nil),
		Prompt: service.NewPromptService(repo, nil),
	}

	o := DefaultOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	s := NewServer(repo, services, o, nil)

	t.Cleanup(func() {
		s.Close()
		_ = repo.Close()
	})

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		repo:   repo,
	}
}

// decode unmarshals an enveloped response body.
func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return env
}

// login creates (or fetches) a user through the API and returns its ID.
func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{"email": email})
	require.Equal(t, 200, resp.Code, resp.Body.String())
	env := decode[map[string]any](t, resp)
	id, _ := env.Data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

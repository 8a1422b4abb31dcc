package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/promptozer/promptozer/internal/api"
	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/http/response"
	"github.com/promptozer/promptozer/internal/identity"
	"github.com/promptozer/promptozer/internal/service"
	"github.com/promptozer/promptozer/internal/store/sqlite"
	"github.com/promptozer/promptozer/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a real API server over SQLite and returns a client for it.
func newTestClient(t *testing.T) (*Client, *sqlite.Store) {
	t.Helper()

	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "server.db"), nil)
	require.NoError(t, err)

	srv := api.NewServer(repo, &api.Services{
		Auth:   service.NewAuthService(identity.NewResolver(repo, nil), nil),
		Prompt: service.NewPromptService(repo, nil),
	}, api.DefaultOptions(), nil)
	ts := httptest.NewServer(srv)

	t.Cleanup(func() {
		ts.Close()
		srv.Close()
		_ = repo.Close()
	})

	c, err := New(ts.URL, WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return c, repo
}

// newStubClient returns a client for a handler that answers every request.
func newStubClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := New(ts.URL)
	require.NoError(t, err)
	return c
}

func TestClient_Contract(t *testing.T) {
	storetest.RunPromptStore(t, func(t *testing.T) storetest.Fixture {
		c, _ := newTestClient(t)
		a, err := c.ResolveOrCreate(context.Background(), "a@example.com")
		require.NoError(t, err)
		b, err := c.ResolveOrCreate(context.Background(), "b@example.com")
		require.NoError(t, err)
		return storetest.Fixture{Store: c, OwnerA: a.ID, OwnerB: b.ID}
	})
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("localhost:8080")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestClient_Health(t *testing.T) {
	c, _ := newTestClient(t)
	assert.NoError(t, c.Health(context.Background()))
}

func TestClient_IdentityRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	u, err := c.ResolveOrCreate(ctx, "Erin@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Erin", u.Name)

	got, err := c.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = c.GetUser(ctx, "user-unknown")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = c.ResolveOrCreate(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestClient_MigrateRoundTrip(t *testing.T) {
	c, repo := newTestClient(t)
	ctx := context.Background()

	u, err := c.ResolveOrCreate(ctx, "frank@example.com")
	require.NoError(t, err)

	local := []domain.Prompt{
		{ID: "l1", OwnerID: "anonymous", Title: "T", Content: "C", Tags: []string{"x", "x"}, Category: "Writing", CreatedAt: 42},
	}
	result, err := c.Migrate(ctx, u.ID, local)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Migrated)
	assert.Equal(t, u.ID, result.OwnerID)

	stored, err := repo.ListPrompts(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, int64(42), stored[0].CreatedAt)
	assert.Equal(t, []string{"x", "x"}, stored[0].Tags)

	_, err = c.Migrate(ctx, "user-unknown", local)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestClient_ServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.ListPrompts(context.Background(), "user-1")
	assert.ErrorIs(t, err, domainerrors.ErrTransport)

	_, err = c.GetUser(context.Background(), "user-1")
	assert.ErrorIs(t, err, domainerrors.ErrTransport, "an unreachable server is not a missing user")
}

func TestClient_ServerErrorIsTransport(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusInternalServerError, "INTERNAL", "boom", nil)
	})

	_, err := c.CreatePrompt(context.Background(), domain.NewPrompt{OwnerID: "u", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domainerrors.ErrTransport)
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_UndecodableBody(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.ListPrompts(context.Background(), "user-1")
	assert.ErrorIs(t, err, domainerrors.ErrTransport)

	ok := newStubClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	_, err = ok.ListPrompts(context.Background(), "user-1")
	assert.ErrorIs(t, err, domainerrors.ErrTransport)
}

func TestClient_MigrateFailureCarriesProgress(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusInternalServerError,
			response.Failure("INTERNAL", "migration stopped after 2 of 5 prompts", map[string]int{"migrated_count": 2, "skipped_count": 1}), nil)
	})

	result, err := c.Migrate(context.Background(), "user-1", make([]domain.Prompt, 5))
	assert.ErrorIs(t, err, domainerrors.ErrTransport)
	require.NotNil(t, result)
	assert.Equal(t, 2, result.Migrated)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 5, result.Total)
}

func TestClient_RateLimitedCodeIsRestored(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusTooManyRequests, "RATE_LIMITED", "slow down", nil)
	})

	_, err := c.ResolveOrCreate(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrRateLimited)
}

func TestClient_ContextCanceled(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListPrompts(ctx, "user-1")
	assert.ErrorIs(t, err, domainerrors.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

package di

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptozer/promptozer/internal/di/providers"
	"github.com/promptozer/promptozer/internal/remote"
)

func baseURL(t *testing.T, injector do.Injector) string {
	t.Helper()
	handle := do.MustInvoke[*providers.HTTPServerHandle](injector)
	_, port, err := net.SplitHostPort(handle.Addr())
	require.NoError(t, err)
	return "http://127.0.0.1:" + port
}

func TestBootstrap_ServesAPI(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "DB_DRIVER", "DB_DSN", "SERVER_PORT", "DATA_DIR"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()

	injector := NewContainer([]string{
		"-env-file", filepath.Join(dir, "missing.env"),
		"-env", "production",
		"-log-level", "error",
		"-data-dir", dir,
		"-port", "0",
	})
	require.NoError(t, Bootstrap(injector))
	t.Cleanup(func() { _ = injector.Shutdown() })

	client, err := remote.New(baseURL(t, injector))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.Health(ctx))

	u, err := client.ResolveOrCreate(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "dana", u.Name)

	assert.FileExists(t, filepath.Join(dir, "promptozer.db"))
}

func TestBootstrap_InvalidConfig(t *testing.T) {
	t.Setenv("ENV", "")
	injector := NewContainer([]string{
		"-env-file", filepath.Join(t.TempDir(), "missing.env"),
		"-env", "qa",
	})

	err := Bootstrap(injector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestHTTPServerHandle_Shutdown(t *testing.T) {
	for _, key := range []string{"ENV", "LOG_LEVEL", "DB_DRIVER", "DB_DSN", "SERVER_PORT", "DATA_DIR"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()

	injector := NewContainer([]string{
		"-env-file", filepath.Join(dir, "missing.env"),
		"-log-level", "error",
		"-data-dir", dir,
		"-port", "0",
	})
	require.NoError(t, Bootstrap(injector))

	base := baseURL(t, injector)
	injector.Shutdown()

	_, err := http.Get(base + "/health") //nolint:noctx // server is gone
	assert.Error(t, err)
}

package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/indigo-web/facet/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testConfig = "../../../config/testdata/facet.yaml"

func run(t *testing.T, args ...string) string {
	var out bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		t.Setenv("FACET_SERVER_NAME", "from-env")

		out := run(t, "config", "--config", testConfig)
		require.Contains(t, out, "name: from-env")
		require.Contains(t, out, "read_timeout: 30s")
		require.Contains(t, out, "- name: users")
	})

	t.Run("routes", func(t *testing.T) {
		out := run(t, "routes", "--config", testConfig)
		require.Contains(t, out, "NAME")
		require.Regexp(t, `0\s+users\s+200\s+method, path\[0\], path\[1\], path\[2\]`, out)
		require.Regexp(t, `1\s+beta\s+200\s+path\[0\], header:X-Beta, query:version`, out)
		require.Regexp(t, `2\s+health\s+204\s+method, path\[0\]`, out)
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("FACET_PIPELINE_GZIP_LEVEL", "100")

		root := NewRoot()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs([]string{"routes"})
		require.ErrorContains(t, root.Execute(), "GzipLevel")
	})
}

func TestMux(t *testing.T) {
	t.Setenv("FACET_METRICS_ENABLED", "true")
	cfg, err := config.Load(testConfig)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux, err := newMux(cfg, logger, prometheus.NewRegistry(), "/debug/view")
	require.NoError(t, err)

	get := func(path string) *http.Response {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Result()
	}

	resp := get("/api/users/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "facet-test", resp.Header.Get("Server"))
	require.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	require.Equal(t, http.StatusNoContent, get("/healthz").StatusCode)
	require.Equal(t, http.StatusNotFound, get("/api").StatusCode)
	require.Equal(t, http.StatusOK, get("/debug/view").StatusCode)

	resp = get("/internal/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `facet_requests_total{code="200",route="users"} 1`)
}

func TestServe(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, serve(ctx, cfg, http.NotFoundHandler(), logger))
}

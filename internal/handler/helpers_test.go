package handler

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"solar-proxy/internal/client"
	"solar-proxy/internal/config"
	"solar-proxy/internal/service"
	"solar-proxy/internal/static"
)

const testKeyEnv = "SOLAR_PROXY_HANDLER_TEST_KEY"

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testConfig returns a config pointing the proxy at upstreamURL and the static
// root at dir.
func testConfig(upstreamURL, dir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BodyMaxBytes: 1 << 20},
		Static: config.StaticConfig{Root: dir, Index: "index.html"},
		Upstream: config.UpstreamConfig{
			URL:             upstreamURL,
			TimeoutSeconds:  10,
			IdleConnections: 10,
			APIKeyEnv:       testKeyEnv,
		},
		Metrics: config.MetricsConfig{Path: "/metrics"},
	}
}

func newTestProxyHandler(t *testing.T, cfg *config.Config) *ProxyHandler {
	t.Helper()
	uc := client.NewUpstreamClient(cfg, discardLogger, nil)
	svc, err := service.NewBodiesService(uc, cfg, service.EnvCredential(cfg.Upstream.APIKeyEnv), discardLogger)
	if err != nil {
		t.Fatalf("NewBodiesService: %v", err)
	}
	return NewProxyHandler(svc, cfg, discardLogger)
}

func newTestStore(t *testing.T, cfg *config.Config) *static.Store {
	t.Helper()
	store, err := static.NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// writeSite populates a temp dir with files and returns its path.
func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

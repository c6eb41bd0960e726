package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
backend:
  base_url: https://catalog.internal:9443
http:
  timeout_seconds: 45
  requests_per_second: 5
  burst: 2
products:
  page_size: 25
progress:
  buffer_size: 64
  max_batch_events: 8
  max_batch_wait_ms: 100
  resync_on_drop: true
status:
  listen_addr: 127.0.0.1:9091
logging:
  development: false
  level: warn
tracing:
  enabled: true
  service_name: catalog-admin
  log_spans: true
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://catalog.internal:9443", cfg.Backend.BaseURL)
	require.Equal(t, 45*time.Second, cfg.RequestTimeout())
	require.InDelta(t, 5.0, cfg.HTTP.RequestsPerSecond, 1e-9)
	require.Equal(t, 2, cfg.HTTP.Burst)
	require.Equal(t, 25, cfg.Products.PageSize)
	require.Equal(t, 8, cfg.Progress.MaxBatchEvents)
	require.Equal(t, 100*time.Millisecond, cfg.BatchWait())
	require.True(t, cfg.Progress.ResyncOnDrop)
	require.Equal(t, "127.0.0.1:9091", cfg.Status.ListenAddr)
	require.False(t, cfg.Logging.Development)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "catalog-admin", cfg.Tracing.ServiceName)
	require.True(t, cfg.Tracing.LogSpans)
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Products.PageSize)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout())
	require.False(t, cfg.Progress.ResyncOnDrop)
	require.Empty(t, cfg.Status.ListenAddr)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "catalogctl", cfg.Tracing.ServiceName)
	require.False(t, cfg.Tracing.LogSpans)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := Config{
		Backend:  BackendConfig{BaseURL: "http://localhost:8000"},
		HTTP:     HTTPConfig{TimeoutSeconds: 5},
		Products: ProductsConfig{PageSize: 10},
	}
	require.NoError(t, base.Validate())

	cases := map[string]func(c *Config){
		"relative base url": func(c *Config) { c.Backend.BaseURL = "/api" },
		"zero timeout":      func(c *Config) { c.HTTP.TimeoutSeconds = 0 },
		"negative rps":      func(c *Config) { c.HTTP.RequestsPerSecond = -1 },
		"page size too big": func(c *Config) { c.Products.PageSize = 101 },
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

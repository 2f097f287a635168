package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-interceptor/internal/config"
)

const validConfig = `
server:
  addr: ":9090"
  upstream: "http://localhost:9000"
  read_timeout: 3s
logging:
  level: debug
  format: console
pipeline:
  graph_file: pipeline.dot
  interceptors:
    - name: api key
      type: require_header
      header: X-Api-Key
    - name: policy
      type: webhook
      url: "http://localhost:9100/decide"
      timeout: 2s
      retries: 1
      on_error: allow
      headers:
        X-Secret: shared
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("INTERCEPTOR_SERVER__ADDR", ":7070")
	t.Setenv("INTERCEPTOR_TELEMETRY__ENABLED", "true")

	cfg, err := config.Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:9000", cfg.Server.Upstream)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "interceptord", cfg.Telemetry.ServiceName)
	assert.Equal(t, "pipeline.dot", cfg.Pipeline.GraphFile)

	require.Len(t, cfg.Pipeline.Interceptors, 2)
	assert.Equal(t, config.InterceptorConfig{
		Name:    "policy",
		Type:    config.TypeWebhook,
		URL:     "http://localhost:9100/decide",
		Timeout: 2 * time.Second,
		Retries: 1,
		OnError: config.OnErrorAllow,
		Headers: map[string]string{"X-Secret": "shared"},
	}, cfg.Pipeline.Interceptors[1])
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	// no interceptor configured
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content string
	}{
		"not yaml": {content: "server: [:"},
		"unknown type": {content: `
pipeline:
  interceptors:
    - name: a
      type: teleport
`},
		"webhook without url": {content: `
pipeline:
  interceptors:
    - name: a
      type: webhook
`},
		"header missing": {content: `
pipeline:
  interceptors:
    - name: a
      type: set_header
      value: b
`},
		"bad on_error": {content: `
pipeline:
  interceptors:
    - name: a
      type: webhook
      url: http://localhost
      on_error: maybe
`},
		"duplicate names": {content: `
pipeline:
  interceptors:
    - name: a
      type: reject_path
      paths: ["/a"]
    - name: a
      type: reject_path
      paths: ["/b"]
`},
		"bad log level": {content: `
logging:
  level: loud
pipeline:
  interceptors:
    - name: a
      type: reject_path
      paths: ["/a"]
`},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(config.PathEnv, "")
	assert.Equal(t, "config.yaml", config.Path())

	t.Setenv(config.PathEnv, "/etc/interceptord.yaml")
	assert.Equal(t, "/etc/interceptord.yaml", config.Path())
}

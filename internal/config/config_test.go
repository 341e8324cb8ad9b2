package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yapay-ai/api-rate-guardian/internal/config"
	"github.com/yapay-ai/api-rate-guardian/pkg/checkers"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const sampleConfig = `
apis:
  - name: openai-prod
    provider: openai
    api_key: sk-test
    threshold: 70
    check_interval: 30s
  - provider: github
    api_key: ${TEST_GITHUB_TOKEN}

notifications:
  telegram:
    enabled: true
    token: bot-token
    chat_id: "42"
  console:
    enabled: true

server:
  enabled: true
  listen: ":8090"

storage:
  path: guardian.db

logging:
  level: debug
  format: text
`

func TestLoad(t *testing.T) {
	t.Setenv("TEST_GITHUB_TOKEN", "ghp_secret")
	path := writeConfig(t, sampleConfig)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.APIs, 2)
	assert.Equal(t, "openai-prod", cfg.APIs[0].Name)
	require.NotNil(t, cfg.APIs[0].Threshold)
	assert.Equal(t, 70, *cfg.APIs[0].Threshold)
	assert.Equal(t, 30*time.Second, cfg.APIs[0].Interval)

	// Env var substitution
	assert.Equal(t, "ghp_secret", cfg.APIs[1].APIKey)

	require.Contains(t, cfg.Notifications, "telegram")
	assert.True(t, cfg.Notifications["telegram"].Enabled)
	assert.Equal(t, "bot-token", cfg.Notifications["telegram"].Token)
	assert.Equal(t, "42", cfg.Notifications["telegram"].ChatID)

	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, ":8090", cfg.Server.Listen)
	assert.Equal(t, "guardian.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "apis:\n  - provider: github\n    api_key: tok\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Storage.Path)
	assert.Nil(t, cfg.APIs[0].Threshold)
}

func TestLoad_ExplicitZeroThreshold(t *testing.T) {
	path := writeConfig(t, "apis:\n  - provider: github\n    api_key: tok\n    threshold: 0\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.APIs[0].Threshold)
	assert.Equal(t, 0, *cfg.APIs[0].Threshold)
}

func TestLoad_UnsetEnvVarLeftVerbatim(t *testing.T) {
	path := writeConfig(t, "apis:\n  - provider: github\n    api_key: ${DEFINITELY_NOT_SET_12345}\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "${DEFINITELY_NOT_SET_12345}", cfg.APIs[0].APIKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "apis: [unclosed")
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{}
	require.Error(t, cfg.Validate())

	cfg.APIs = append(cfg.APIs,
		checkers.Config{Name: "a", Provider: "openai", APIKey: "k"},
		checkers.Config{Name: "a", Provider: "github", APIKey: "k"},
	)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate checker name")

	cfg.APIs[1].Name = "b"
	assert.NoError(t, cfg.Validate())
}

func TestExampleConfigParses(t *testing.T) {
	path := writeConfig(t, config.Example)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.APIs, 2)
	assert.True(t, cfg.Notifications["console"].Enabled)
}

package checkers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yapay-ai/api-rate-guardian/pkg/checkers"
)

func TestNew_AllProviders(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "deepseek", "minimax", "github"} {
		c, err := checkers.New(checkers.Config{
			Provider: provider,
			APIKey:   "test-key",
		})
		require.NoError(t, err, provider)
		assert.Equal(t, provider, c.Name())
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := checkers.New(checkers.Config{
		Name:     "mystery",
		Provider: "gemini",
		APIKey:   "test-key",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestNew_MissingAPIKey(t *testing.T) {
	_, err := checkers.New(checkers.Config{
		Name:     "openai-prod",
		Provider: "openai",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")
}

func TestNew_InvalidThreshold(t *testing.T) {
	threshold := 150
	_, err := checkers.New(checkers.Config{
		Provider:  "github",
		APIKey:    "tok",
		Threshold: &threshold,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestNew_SubSecondIntervalRejected(t *testing.T) {
	// A bare "check_interval: 60" in the config decodes as 60ns; that
	// must not become a hot polling loop.
	_, err := checkers.New(checkers.Config{
		Name:     "openai-prod",
		Provider: "openai",
		APIKey:   "tok",
		Interval: 60,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check_interval")
	assert.Contains(t, err.Error(), "openai-prod")
}

func TestNew_CustomRequiresURL(t *testing.T) {
	_, err := checkers.New(checkers.Config{
		Name:     "internal-api",
		Provider: "custom",
		APIKey:   "tok",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url is required")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := checkers.Config{Provider: "openai", APIKey: "k"}
	cfg.ApplyDefaults()

	assert.Equal(t, "openai", cfg.Name)
	require.NotNil(t, cfg.Threshold)
	assert.Equal(t, 80, *cfg.Threshold)
	assert.Equal(t, 60*time.Second, cfg.Interval)
}

func TestConfigExplicitZeroThresholdPreserved(t *testing.T) {
	zero := 0
	cfg := checkers.Config{Provider: "github", APIKey: "k", Threshold: &zero}
	cfg.ApplyDefaults()

	// threshold: 0 means alert on any usage, not "use the default"
	require.NotNil(t, cfg.Threshold)
	assert.Equal(t, 0, *cfg.Threshold)
	require.NoError(t, cfg.Validate())
}

func TestProviders(t *testing.T) {
	providers := checkers.Providers()
	assert.Contains(t, providers, "openai")
	assert.Contains(t, providers, "github")
	assert.Contains(t, providers, "custom")
	assert.IsIncreasing(t, providers)
}

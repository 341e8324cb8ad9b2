package checkers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yapay-ai/api-rate-guardian/pkg/checkers"
	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

func TestAnthropic_Check(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		w.Header().Set("anthropic-ratelimit-requests-limit", "50")
		w.Header().Set("anthropic-ratelimit-requests-remaining", "5")
		w.Header().Set("anthropic-ratelimit-requests-reset", "2025-06-01T12:01:00Z")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := checkers.NewAnthropic(checkers.Config{Name: "claude", APIKey: "sk-ant-test", BaseURL: server.URL})
	report := c.Check(context.Background())

	require.Equal(t, model.StatusOK, report.Status)
	assert.InDelta(t, 90.0, report.UsagePercent, 0.01)
	assert.Equal(t, "2025-06-01T12:01:00Z", report.ResetTime)
}

func TestAnthropic_Check_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := checkers.NewAnthropic(checkers.Config{Name: "claude", APIKey: "sk-ant-test", BaseURL: server.URL})
	report := c.Check(context.Background())

	require.Equal(t, model.StatusError, report.Status)
	assert.Contains(t, report.ErrorDetail, "429")
}

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yapay-ai/api-rate-guardian/internal/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics_Observations(t *testing.T) {
	m := metrics.New()

	m.ObserveCheck("openai", "ok", 42.5, true)
	m.ObserveCheck("openai", "error", 0, false)
	m.ObserveAlert("openai", "critical")
	m.ObserveSuppressed("openai")
	m.ObserveNotifyFailure("telegram")

	body := scrape(t, m)
	assert.Contains(t, body, `guardian_usage_percent{provider="openai"} 42.5`)
	assert.Contains(t, body, `guardian_checks_total{provider="openai",status="ok"} 1`)
	assert.Contains(t, body, `guardian_checks_total{provider="openai",status="error"} 1`)
	assert.Contains(t, body, `guardian_alerts_total{level="critical",provider="openai"} 1`)
	assert.Contains(t, body, `guardian_alerts_suppressed_total{provider="openai"} 1`)
	assert.Contains(t, body, `guardian_notify_failures_total{channel="telegram"} 1`)
}

func TestMetrics_ErrorCheckKeepsLastUsage(t *testing.T) {
	m := metrics.New()

	m.ObserveCheck("github", "ok", 75, true)
	m.ObserveCheck("github", "error", 0, false)

	// A failed check must not reset the gauge to a fabricated zero.
	body := scrape(t, m)
	assert.Contains(t, body, `guardian_usage_percent{provider="github"} 75`)
}

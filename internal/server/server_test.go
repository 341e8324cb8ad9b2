package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yapay-ai/api-rate-guardian/internal/metrics"
	"github.com/yapay-ai/api-rate-guardian/internal/server"
	"github.com/yapay-ai/api-rate-guardian/pkg/model"
	"github.com/yapay-ai/api-rate-guardian/pkg/monitor"
	"github.com/yapay-ai/api-rate-guardian/pkg/notify"
	"github.com/yapay-ai/api-rate-guardian/pkg/storage"
)

type staticChecker struct {
	name  string
	usage float64
}

func (c staticChecker) Name() string { return c.name }

func (c staticChecker) Check(context.Context) model.UsageReport {
	return model.UsageReport{
		Provider:     c.name,
		UsagePercent: c.usage,
		Remaining:    100,
		Limit:        1000,
		Status:       model.StatusOK,
		CheckedAt:    time.Now().UTC(),
	}
}

func newTestServer(t *testing.T, store storage.Store) (*server.Server, *monitor.Orchestrator) {
	t.Helper()

	dispatcher := notify.NewDispatcher(nil, slog.Default())
	loops := []*monitor.Loop{
		monitor.NewLoop(staticChecker{name: "openai", usage: 42}, 80, time.Millisecond, dispatcher),
	}
	orch := monitor.NewOrchestrator(loops, slog.Default())

	return server.New(orch, store, metrics.New(), slog.Default()), orch
}

func get(t *testing.T, s *server.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "idle", body["lifecycle"])
}

func TestServer_Status(t *testing.T) {
	s, orch := newTestServer(t, nil)
	require.NoError(t, orch.Start(context.Background()))
	defer orch.Stop() //nolint:errcheck

	require.Eventually(t, func() bool {
		snap := orch.Snapshot()
		return len(snap) == 1 && snap[0].Report != nil
	}, 5*time.Second, time.Millisecond)

	rec := get(t, s, "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Lifecycle string               `json:"lifecycle"`
		Checkers  []monitor.LoopStatus `json:"checkers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "running", body.Lifecycle)
	require.Len(t, body.Checkers, 1)
	assert.Equal(t, "openai", body.Checkers[0].Name)
	require.NotNil(t, body.Checkers[0].Report)
	assert.Equal(t, 42.0, body.Checkers[0].Report.UsagePercent)
}

func TestServer_Alerts(t *testing.T) {
	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "guardian.db"))
	require.NoError(t, err)
	defer store.Close()

	event := &model.AlertEvent{
		Checker:      "openai",
		Title:        "API rate limit warning - openai",
		Message:      "usage high",
		Level:        model.LevelWarning,
		UsagePercent: 85,
		FiredAt:      time.Now().UTC(),
	}
	require.NoError(t, store.RecordAlert(context.Background(), event))

	s, _ := newTestServer(t, store)

	rec := get(t, s, "/api/v1/alerts?checker=openai")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Alerts []model.AlertEvent `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Alerts, 1)
	assert.Equal(t, event.ID, body.Alerts[0].ID)
}

func TestServer_AlertsHistoryDisabled(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s, "/api/v1/alerts")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_AlertsBadLimit(t *testing.T) {
	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "guardian.db"))
	require.NoError(t, err)
	defer store.Close()

	s, _ := newTestServer(t, store)
	rec := get(t, s, "/api/v1/alerts?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

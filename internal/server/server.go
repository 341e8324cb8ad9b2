package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/yapay-ai/api-rate-guardian/internal/metrics"
	"github.com/yapay-ai/api-rate-guardian/pkg/model"
	"github.com/yapay-ai/api-rate-guardian/pkg/monitor"
	"github.com/yapay-ai/api-rate-guardian/pkg/storage"
)

// Server exposes health, monitoring status, alert history, and
// Prometheus metrics over HTTP.
type Server struct {
	orch   *monitor.Orchestrator
	store  storage.Store
	mux    *http.ServeMux
	logger *slog.Logger
}

// New creates the status API server. store may be nil when alert
// history is disabled.
func New(orch *monitor.Orchestrator, store storage.Store, m *metrics.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		orch:   orch,
		store:  store,
		mux:    http.NewServeMux(),
		logger: logger,
	}
	s.routes(m)
	return s
}

func (s *Server) routes(m *metrics.Metrics) {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/v1/alerts", s.handleAlerts)
	if m != nil {
		s.mux.Handle("GET /metrics", m.Handler())
	}
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{
		"status":    "ok",
		"lifecycle": s.orch.State().String(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]any{
		"lifecycle": s.orch.State().String(),
		"checkers":  s.orch.Snapshot(),
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "alert history disabled", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := storage.AlertFilter{
		Checker: r.URL.Query().Get("checker"),
		Level:   model.Level(r.URL.Query().Get("level")),
		Limit:   50,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = n
	}

	alerts, err := s.store.ListAlerts(ctx, filter)
	if err != nil {
		s.logger.Error("list alerts", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []model.AlertEvent{}
	}
	s.writeJSON(w, map[string]any{"alerts": alerts})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

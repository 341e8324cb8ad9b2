package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks monitoring activity for the Prometheus endpoint.
//
// Exposed series:
//   - guardian_usage_percent{provider}: last observed usage percentage
//   - guardian_checks_total{provider,status}: checks by outcome
//   - guardian_alerts_total{provider,level}: alerts fired
//   - guardian_alerts_suppressed_total{provider}: crossings inside the debounce window
//   - guardian_notify_failures_total{channel}: failed deliveries
type Metrics struct {
	registry *prometheus.Registry

	usagePercent     *prometheus.GaugeVec
	checks           *prometheus.CounterVec
	alerts           *prometheus.CounterVec
	alertsSuppressed *prometheus.CounterVec
	notifyFailures   *prometheus.CounterVec
}

// New creates a metrics set on its own registry, including the standard
// Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		usagePercent: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "guardian_usage_percent",
				Help: "Last observed rate-limit usage percentage per provider",
			},
			[]string{"provider"},
		),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guardian_checks_total",
				Help: "Total rate-limit checks by provider and outcome",
			},
			[]string{"provider", "status"},
		),
		alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guardian_alerts_total",
				Help: "Total alerts fired by provider and severity",
			},
			[]string{"provider", "level"},
		),
		alertsSuppressed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guardian_alerts_suppressed_total",
				Help: "Threshold crossings suppressed by the debounce window",
			},
			[]string{"provider"},
		),
		notifyFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guardian_notify_failures_total",
				Help: "Failed alert deliveries by channel type",
			},
			[]string{"channel"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.usagePercent,
		m.checks,
		m.alerts,
		m.alertsSuppressed,
		m.notifyFailures,
	)

	return m
}

// ObserveCheck records one check outcome.
func (m *Metrics) ObserveCheck(provider, status string, usagePercent float64, ok bool) {
	m.checks.WithLabelValues(provider, status).Inc()
	if ok {
		m.usagePercent.WithLabelValues(provider).Set(usagePercent)
	}
}

// ObserveAlert records a fired alert.
func (m *Metrics) ObserveAlert(provider, level string) {
	m.alerts.WithLabelValues(provider, level).Inc()
}

// ObserveSuppressed records a crossing suppressed by the debounce window.
func (m *Metrics) ObserveSuppressed(provider string) {
	m.alertsSuppressed.WithLabelValues(provider).Inc()
}

// ObserveNotifyFailure records a failed channel delivery.
func (m *Metrics) ObserveNotifyFailure(channel string) {
	m.notifyFailures.WithLabelValues(channel).Inc()
}

// Handler returns the Prometheus exposition handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

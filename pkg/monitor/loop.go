package monitor

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/checkers"
	"github.com/yapay-ai/api-rate-guardian/pkg/model"
	"github.com/yapay-ai/api-rate-guardian/pkg/notify"
)

// DebounceWindow is the fixed cooldown after a fired alert during which
// further threshold crossings for the same checker are suppressed. It
// is a pure cooldown timer: dropping below the threshold does not reset
// it.
const DebounceWindow = 300 * time.Second

// State is the lifecycle state of a loop or of the orchestrator.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// AlertSink receives fired alerts for persistence. Implemented by
// storage.Store; a nil sink disables alert history.
type AlertSink interface {
	RecordAlert(ctx context.Context, event *model.AlertEvent) error
}

// Observer receives monitoring observations. Implemented by
// metrics.Metrics.
type Observer interface {
	ObserveCheck(provider, status string, usagePercent float64, ok bool)
	ObserveAlert(provider, level string)
	ObserveSuppressed(provider string)
	ObserveNotifyFailure(channel string)
}

type nopObserver struct{}

func (nopObserver) ObserveCheck(string, string, float64, bool) {}
func (nopObserver) ObserveAlert(string, string)                {}
func (nopObserver) ObserveSuppressed(string)                   {}
func (nopObserver) ObserveNotifyFailure(string)                {}

// Loop drives exactly one checker: wait one interval, check, evaluate
// the threshold, and fan out an alert when a crossing falls outside the
// debounce window. It owns its debounce state exclusively; no other
// loop reads or writes it.
type Loop struct {
	checker    checkers.Checker
	threshold  int
	interval   time.Duration
	dispatcher *notify.Dispatcher
	sink       AlertSink
	obs        Observer
	logger     *slog.Logger

	// For time mocking in tests
	now func() time.Time

	state atomic.Int32

	// lastAlertAt is the debounce state, touched only by the owning
	// goroutine inside tick.
	lastAlertAt time.Time

	mu        sync.RWMutex
	latest    model.UsageReport
	hasReport bool
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

// WithAlertSink sets the alert history sink.
func WithAlertSink(sink AlertSink) LoopOption {
	return func(l *Loop) { l.sink = sink }
}

// WithObserver sets the metrics observer.
func WithObserver(obs Observer) LoopOption {
	return func(l *Loop) { l.obs = obs }
}

// WithTimeFunc sets a custom time source (for testing).
func WithTimeFunc(fn func() time.Time) LoopOption {
	return func(l *Loop) { l.now = fn }
}

// NewLoop creates a monitor loop for one checker.
func NewLoop(checker checkers.Checker, threshold int, interval time.Duration, dispatcher *notify.Dispatcher, opts ...LoopOption) *Loop {
	l := &Loop{
		checker:    checker,
		threshold:  threshold,
		interval:   interval,
		dispatcher: dispatcher,
		obs:        nopObserver{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("checker", checker.Name())
	return l
}

// Name returns the checker name this loop monitors.
func (l *Loop) Name() string { return l.checker.Name() }

// Threshold returns the configured alert threshold.
func (l *Loop) Threshold() int { return l.threshold }

// Interval returns the polling interval.
func (l *Loop) Interval() time.Duration { return l.interval }

// State returns the loop's lifecycle state.
func (l *Loop) State() State { return State(l.state.Load()) }

// Latest returns the most recent usage report, if any check has run yet.
func (l *Loop) Latest() (model.UsageReport, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.latest, l.hasReport
}

// Run blocks until ctx is cancelled, performing one check per interval.
// The wait is interruptible, so shutdown latency stays below one full
// interval. Once the stop signal is observed no further check is issued.
func (l *Loop) Run(ctx context.Context) {
	l.state.Store(int32(StateRunning))
	l.logger.Info("monitor loop started",
		slog.Int("threshold", l.threshold),
		slog.Duration("interval", l.interval))

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.shutdown()
			return
		case <-timer.C:
		}

		// The stop signal may have raced the timer.
		if ctx.Err() != nil {
			l.shutdown()
			return
		}

		l.tick(ctx)
		timer.Reset(l.interval)
	}
}

func (l *Loop) shutdown() {
	l.state.Store(int32(StateStopping))
	l.logger.Info("monitor loop stopped")
	l.state.Store(int32(StateStopped))
}

// tick performs one check-and-evaluate cycle.
func (l *Loop) tick(ctx context.Context) {
	report := l.checker.Check(ctx)
	l.setLatest(report)
	l.obs.ObserveCheck(l.Name(), string(report.Status), report.UsagePercent, report.Status == model.StatusOK)

	if report.Status == model.StatusError {
		// Non-fatal: log and wait for the next tick. Debounce state is
		// untouched and nothing is dispatched.
		l.logger.Warn("check failed", "error", report.ErrorDetail)
		return
	}

	if report.UsagePercent < float64(l.threshold) {
		l.logger.Info("usage below threshold",
			slog.Float64("usage_percent", report.UsagePercent),
			slog.Int("threshold", l.threshold))
		return
	}

	now := l.now()
	if !l.lastAlertAt.IsZero() && now.Sub(l.lastAlertAt) <= DebounceWindow {
		l.logger.Info("alert suppressed by debounce window",
			slog.Float64("usage_percent", report.UsagePercent),
			slog.Duration("since_last_alert", now.Sub(l.lastAlertAt)))
		l.obs.ObserveSuppressed(l.Name())
		return
	}

	l.fire(ctx, report, now)
	l.lastAlertAt = now
}

// fire builds the alert, fans it out, and records it in the history.
// Delivery and persistence failures are logged, never escalated.
func (l *Loop) fire(ctx context.Context, report model.UsageReport, now time.Time) {
	event := model.NewAlertEvent(l.Name(), report, now)

	l.logger.Warn("rate limit threshold crossed",
		slog.Float64("usage_percent", report.UsagePercent),
		slog.Int("threshold", l.threshold),
		slog.String("level", string(event.Level)))

	// Stop must not abort a delivery already in flight; the dispatcher's
	// per-send timeout still bounds it.
	sendCtx := context.WithoutCancel(ctx)

	results := l.dispatcher.Dispatch(sendCtx, event)
	for _, r := range results {
		if r.Err != nil {
			l.obs.ObserveNotifyFailure(r.Channel)
		}
	}
	l.obs.ObserveAlert(l.Name(), string(event.Level))

	if l.sink != nil {
		if err := l.sink.RecordAlert(sendCtx, &event); err != nil {
			l.logger.Error("record alert history", "error", err)
		}
	}
}

func (l *Loop) setLatest(report model.UsageReport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latest = report
	l.hasReport = true
}

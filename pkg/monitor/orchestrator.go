package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// stopCeiling caps how long Stop waits for the loops regardless of
// their intervals.
const stopCeiling = 30 * time.Second

// Orchestrator owns the full set of monitor loops and is the single
// lifecycle root: Start spawns one goroutine per loop, Stop signals
// them and waits, bounded, for completion.
type Orchestrator struct {
	loops  []*Loop
	logger *slog.Logger

	state  atomic.Int32
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewOrchestrator creates an orchestrator over a fixed set of loops.
func NewOrchestrator(loops []*Loop, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		loops:  loops,
		logger: logger,
	}
}

// State returns the orchestrator's lifecycle state.
func (o *Orchestrator) State() State { return State(o.state.Load()) }

// Loops returns the managed loops.
func (o *Orchestrator) Loops() []*Loop { return o.loops }

// Start spawns every monitor loop concurrently. It fails fast when no
// checker is configured and when called while already running.
func (o *Orchestrator) Start(ctx context.Context) error {
	if len(o.loops) == 0 {
		return fmt.Errorf("no checkers configured")
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if State(o.state.Load()) == StateRunning {
		return fmt.Errorf("orchestrator already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})

	var wg sync.WaitGroup
	for _, loop := range o.loops {
		wg.Add(1)
		go func(l *Loop) {
			defer wg.Done()
			l.Run(runCtx)
		}(loop)
	}

	go func() {
		wg.Wait()
		close(o.done)
	}()

	o.state.Store(int32(StateRunning))
	o.logger.Info("monitoring started", slog.Int("checkers", len(o.loops)))
	return nil
}

// Stop signals every loop and waits for all of them to finish, bounded
// by twice the longest polling interval (capped at a fixed ceiling).
// In-flight notification sends are allowed to complete. Safe to call
// from a signal handler and safe to call more than once.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	if State(o.state.Load()) != StateRunning {
		o.mu.Unlock()
		return nil
	}
	o.state.Store(int32(StateStopping))
	cancel := o.cancel
	done := o.done
	o.mu.Unlock()

	o.logger.Info("stopping monitoring")
	cancel()

	timeout := o.stopTimeout()
	select {
	case <-done:
		o.state.Store(int32(StateStopped))
		o.logger.Info("monitoring stopped")
		return nil
	case <-time.After(timeout):
		o.state.Store(int32(StateStopped))
		return fmt.Errorf("monitor loops did not stop within %s", timeout)
	}
}

// stopTimeout bounds the shutdown wait: loops observe the stop signal
// within one interval, so twice the longest interval is a safe bound.
func (o *Orchestrator) stopTimeout() time.Duration {
	var longest time.Duration
	for _, l := range o.loops {
		if l.interval > longest {
			longest = l.interval
		}
	}
	timeout := 2 * longest
	if timeout <= 0 || timeout > stopCeiling {
		timeout = stopCeiling
	}
	return timeout
}

// LoopStatus is a point-in-time view of one loop for the status API.
type LoopStatus struct {
	Name      string             `json:"name"`
	Threshold int                `json:"threshold"`
	Interval  string             `json:"interval"`
	State     string             `json:"state"`
	Report    *model.UsageReport `json:"report,omitempty"`
}

// Snapshot returns the current status of every loop.
func (o *Orchestrator) Snapshot() []LoopStatus {
	statuses := make([]LoopStatus, 0, len(o.loops))
	for _, l := range o.loops {
		status := LoopStatus{
			Name:      l.Name(),
			Threshold: l.Threshold(),
			Interval:  l.Interval().String(),
			State:     l.State().String(),
		}
		if report, ok := l.Latest(); ok {
			status.Report = &report
		}
		statuses = append(statuses, status)
	}
	return statuses
}

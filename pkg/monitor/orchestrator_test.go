package monitor_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yapay-ai/api-rate-guardian/pkg/monitor"
	"github.com/yapay-ai/api-rate-guardian/pkg/notify"
)

func TestOrchestrator_StartRequiresCheckers(t *testing.T) {
	o := monitor.NewOrchestrator(nil, slog.Default())
	err := o.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no checkers configured")
}

func TestOrchestrator_RunsAllLoopsIndependently(t *testing.T) {
	dispatcher := notify.NewDispatcher(nil, slog.Default())

	first := &instantChecker{name: "first", usage: 10}
	second := &instantChecker{name: "second", usage: 10}
	loops := []*monitor.Loop{
		monitor.NewLoop(first, 80, time.Millisecond, dispatcher),
		monitor.NewLoop(second, 80, time.Millisecond, dispatcher),
	}

	o := monitor.NewOrchestrator(loops, slog.Default())
	require.NoError(t, o.Start(context.Background()))
	assert.Equal(t, monitor.StateRunning, o.State())

	require.Eventually(t, func() bool {
		return first.checks.Load() >= 3 && second.checks.Load() >= 3
	}, 5*time.Second, time.Millisecond)

	require.NoError(t, o.Stop())
	assert.Equal(t, monitor.StateStopped, o.State())

	for _, l := range o.Loops() {
		assert.Equal(t, monitor.StateStopped, l.State())
	}
}

func TestOrchestrator_StartTwiceFails(t *testing.T) {
	dispatcher := notify.NewDispatcher(nil, slog.Default())
	loops := []*monitor.Loop{
		monitor.NewLoop(&instantChecker{name: "api", usage: 10}, 80, time.Millisecond, dispatcher),
	}

	o := monitor.NewOrchestrator(loops, slog.Default())
	require.NoError(t, o.Start(context.Background()))
	defer o.Stop() //nolint:errcheck

	err := o.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestOrchestrator_StopIsIdempotent(t *testing.T) {
	dispatcher := notify.NewDispatcher(nil, slog.Default())
	loops := []*monitor.Loop{
		monitor.NewLoop(&instantChecker{name: "api", usage: 10}, 80, time.Millisecond, dispatcher),
	}

	o := monitor.NewOrchestrator(loops, slog.Default())
	require.NoError(t, o.Start(context.Background()))

	require.NoError(t, o.Stop())
	require.NoError(t, o.Stop())
	assert.Equal(t, monitor.StateStopped, o.State())
}

func TestOrchestrator_StopBoundedByInterval(t *testing.T) {
	dispatcher := notify.NewDispatcher(nil, slog.Default())
	interval := 50 * time.Millisecond
	checker := &instantChecker{name: "api", usage: 10}
	loops := []*monitor.Loop{monitor.NewLoop(checker, 80, interval, dispatcher)}

	o := monitor.NewOrchestrator(loops, slog.Default())
	require.NoError(t, o.Start(context.Background()))

	start := time.Now()
	require.NoError(t, o.Stop())

	// The wait is interruptible, so stopping takes well under one interval.
	assert.Less(t, time.Since(start), interval)

	after := checker.checks.Load()
	time.Sleep(2 * interval)
	assert.Equal(t, after, checker.checks.Load())
}

func TestOrchestrator_Snapshot(t *testing.T) {
	dispatcher := notify.NewDispatcher(nil, slog.Default())
	checker := &instantChecker{name: "api", usage: 42}
	loops := []*monitor.Loop{monitor.NewLoop(checker, 75, time.Millisecond, dispatcher)}

	o := monitor.NewOrchestrator(loops, slog.Default())
	require.NoError(t, o.Start(context.Background()))
	defer o.Stop() //nolint:errcheck

	require.Eventually(t, func() bool { return checker.checks.Load() >= 1 }, 5*time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		snap := o.Snapshot()
		return len(snap) == 1 && snap[0].Report != nil
	}, 5*time.Second, time.Millisecond)

	snap := o.Snapshot()
	assert.Equal(t, "api", snap[0].Name)
	assert.Equal(t, 75, snap[0].Threshold)
	assert.Equal(t, "running", snap[0].State)
	assert.Equal(t, 42.0, snap[0].Report.UsagePercent)
}

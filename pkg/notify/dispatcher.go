package notify

import (
	"context"
	"log/slog"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// Dispatcher fans one alert out to every registered channel.
//
// The channel list is immutable after construction and Dispatch may be
// called concurrently by multiple monitor loops.
type Dispatcher struct {
	channels []Channel
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over a fixed channel list.
func NewDispatcher(channels []Channel, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{channels: channels, logger: logger}
}

// Channels returns the registered channels.
func (d *Dispatcher) Channels() []Channel {
	return d.channels
}

// Result is the delivery outcome for one channel.
type Result struct {
	Channel string
	Err     error
}

// Dispatch attempts delivery through every channel regardless of
// earlier failures. A failing channel is logged and skipped; delivery
// failure never propagates to the caller as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.AlertEvent) []Result {
	results := make([]Result, 0, len(d.channels))

	for _, ch := range d.channels {
		err := d.send(ctx, ch, event)
		if err != nil {
			d.logger.Error("alert delivery failed",
				"channel", ch.Type(),
				"checker", event.Checker,
				"error", err,
			)
		} else {
			d.logger.Debug("alert delivered",
				"channel", ch.Type(),
				"checker", event.Checker,
			)
		}
		results = append(results, Result{Channel: ch.Type(), Err: err})
	}

	return results
}

// send bounds one delivery attempt and converts a channel panic into an
// error so a misbehaving channel cannot take down its monitor loop.
func (d *Dispatcher) send(ctx context.Context, ch Channel, event model.AlertEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{channel: ch.Type(), value: r}
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	return ch.Send(sendCtx, event)
}

type panicError struct {
	channel string
	value   any
}

func (p *panicError) Error() string {
	return "channel " + p.channel + " panicked during send"
}

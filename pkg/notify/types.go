package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// sendTimeout bounds every delivery attempt.
const sendTimeout = 10 * time.Second

// Channel delivers alerts through one mechanism (chat bot, email,
// webhook, push service, console).
//
// Send converts every failure into an error return; it must not panic.
// Implementations hold only immutable connection parameters plus an
// http.Client and are therefore safe for concurrent Send calls from
// multiple monitor loops.
type Channel interface {
	// Type returns the channel type identifier (e.g. "telegram", "webhook").
	Type() string

	// Send delivers one alert event.
	Send(ctx context.Context, event model.AlertEvent) error

	// Validate checks whether the channel configuration is usable.
	Validate() error
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: sendTimeout}
}

// levelEmoji maps an alert level to the marker used in chat messages.
func levelEmoji(level model.Level) string {
	switch level {
	case model.LevelCritical:
		return "\U0001F534" // red circle
	case model.LevelWarning:
		return "⚠️" // warning sign
	default:
		return "ℹ️" // information source
	}
}

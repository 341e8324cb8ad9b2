package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// Console prints alerts to a writer, stderr by default. Used for local
// runs and as a last-resort channel when no remote channel is configured.
type Console struct {
	out io.Writer
}

// NewConsole creates a console channel writing to stderr.
func NewConsole() *Console {
	return &Console{out: os.Stderr}
}

// NewConsoleWriter creates a console channel writing to w.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) Type() string { return "console" }

func (c *Console) Validate() error { return nil }

func (c *Console) Send(_ context.Context, event model.AlertEvent) error {
	_, err := fmt.Fprintf(c.out, "%s %s: %s\n", levelEmoji(event.Level), event.Title, event.Message)
	return err
}

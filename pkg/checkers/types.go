package checkers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// checkTimeout bounds every probe request so a checker never blocks its
// monitor loop indefinitely.
const checkTimeout = 10 * time.Second

// Checker queries one provider's current rate-limit usage.
//
// Check never returns an error and never panics: any transport or
// protocol failure is surfaced as a report with StatusError and a
// human-readable ErrorDetail. Implementations are stateless between
// calls and safe to invoke on a fixed cadence.
type Checker interface {
	// Name returns the configured checker name (unique per instance).
	Name() string

	// Check performs one rate-limit query.
	Check(ctx context.Context) model.UsageReport
}

// Config is the resolved configuration for one checker instance.
type Config struct {
	// Name identifies the checker in alerts and logs; defaults to Provider.
	Name string `mapstructure:"name"`

	// Provider selects the checker implementation (e.g. "openai", "github").
	Provider string `mapstructure:"provider"`

	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`

	// Organization is only used by the OpenAI checker.
	Organization string `mapstructure:"organization"`

	// Threshold is the usage percentage at or above which alerts fire.
	// Nil means unset; an explicit 0 alerts on any usage at all.
	Threshold *int `mapstructure:"threshold"`

	// Interval is the polling cadence for this checker.
	Interval time.Duration `mapstructure:"check_interval"`

	// Fields below are only used by the "custom" provider.
	Method          string `mapstructure:"method"`
	LimitHeader     string `mapstructure:"limit_header"`
	RemainingHeader string `mapstructure:"remaining_header"`
	ResetHeader     string `mapstructure:"reset_header"`
}

const (
	// DefaultThreshold is applied when a provider entry omits one.
	DefaultThreshold = 80

	// DefaultInterval is applied when a provider entry omits one.
	DefaultInterval = 60 * time.Second

	// MinInterval is the lowest accepted polling cadence. It also
	// catches a bare integer interval decoding as nanoseconds.
	MinInterval = time.Second
)

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = c.Provider
	}
	if c.Threshold == nil {
		threshold := DefaultThreshold
		c.Threshold = &threshold
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
}

// Validate reports construction-time configuration errors.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("checker %q: provider is required", c.Name)
	}
	if c.APIKey == "" {
		return fmt.Errorf("checker %q: api_key is required", c.Name)
	}
	if c.Threshold != nil && (*c.Threshold < 0 || *c.Threshold > 100) {
		return fmt.Errorf("checker %q: threshold %d out of range [0,100]", c.Name, *c.Threshold)
	}
	if c.Interval < MinInterval {
		return fmt.Errorf("checker %q: check_interval %s is below the %s minimum (use a duration like \"60s\")", c.Name, c.Interval, MinInterval)
	}
	return nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: checkTimeout}
}

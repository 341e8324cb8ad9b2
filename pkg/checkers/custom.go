package checkers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// Custom checks any vendor that exposes standard rate-limit response
// headers. The endpoint URL, HTTP method, and header names are all
// configurable.
type Custom struct {
	name            string
	apiKey          string
	url             string
	method          string
	limitHeader     string
	remainingHeader string
	resetHeader     string
	client          *http.Client
}

// NewCustom creates a checker for a user-defined endpoint.
func NewCustom(cfg Config) (*Custom, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("checker %q: base_url is required for the custom provider", cfg.Name)
	}
	if cfg.LimitHeader == "" || cfg.RemainingHeader == "" {
		return nil, fmt.Errorf("checker %q: limit_header and remaining_header are required for the custom provider", cfg.Name)
	}

	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	return &Custom{
		name:            cfg.Name,
		apiKey:          cfg.APIKey,
		url:             cfg.BaseURL,
		method:          method,
		limitHeader:     cfg.LimitHeader,
		remainingHeader: cfg.RemainingHeader,
		resetHeader:     cfg.ResetHeader,
		client:          newHTTPClient(),
	}, nil
}

func (c *Custom) Name() string { return c.name }

func (c *Custom) Check(ctx context.Context) model.UsageReport {
	req, err := http.NewRequestWithContext(ctx, c.method, c.url, nil)
	if err != nil {
		return model.ErrorReport(c.name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return model.ErrorReport(c.name, fmt.Errorf("query %s: %w", c.url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.ErrorReport(c.name, fmt.Errorf("endpoint returned status %d", resp.StatusCode))
	}

	pct, remaining, limit, err := usageFromHeaders(resp.Header, c.limitHeader, c.remainingHeader)
	if err != nil {
		return model.ErrorReport(c.name, err)
	}

	report := model.UsageReport{
		Provider:     c.name,
		UsagePercent: pct,
		Remaining:    remaining,
		Limit:        limit,
		Status:       model.StatusOK,
		CheckedAt:    time.Now().UTC(),
	}
	if c.resetHeader != "" {
		report.ResetTime = resp.Header.Get(c.resetHeader)
	}
	return report
}

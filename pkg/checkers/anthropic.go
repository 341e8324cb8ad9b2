package checkers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// Anthropic probes the messages endpoint with a single-token request
// and reads the anthropic-ratelimit response headers.
type Anthropic struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAnthropic creates an Anthropic rate-limit checker.
func NewAnthropic(cfg Config) *Anthropic {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	return &Anthropic{
		name:    cfg.Name,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (a *Anthropic) Name() string { return a.name }

func (a *Anthropic) Check(ctx context.Context) model.UsageReport {
	body := `{"model":"claude-3-5-haiku-latest","max_tokens":1,"messages":[{"role":"user","content":"hi"}]}`
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", strings.NewReader(body))
	if err != nil {
		return model.ErrorReport(a.name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return model.ErrorReport(a.name, fmt.Errorf("probe messages endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return model.ErrorReport(a.name, fmt.Errorf("anthropic returned status %d", resp.StatusCode))
	}

	pct, remaining, limit, err := usageFromHeaders(resp.Header,
		"anthropic-ratelimit-requests-limit", "anthropic-ratelimit-requests-remaining")
	if err != nil {
		return model.ErrorReport(a.name, err)
	}

	return model.UsageReport{
		Provider:     a.name,
		UsagePercent: pct,
		Remaining:    remaining,
		Limit:        limit,
		ResetTime:    resp.Header.Get("anthropic-ratelimit-requests-reset"),
		Status:       model.StatusOK,
		CheckedAt:    time.Now().UTC(),
	}
}

package checkers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

const deepSeekDefaultBaseURL = "https://api.deepseek.com"

// DeepSeek probes the chat completions endpoint with a single-token
// request and reads the X-RateLimit response headers.
type DeepSeek struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewDeepSeek creates a DeepSeek rate-limit checker.
func NewDeepSeek(cfg Config) *DeepSeek {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = deepSeekDefaultBaseURL
	}
	return &DeepSeek{
		name:    cfg.Name,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (d *DeepSeek) Name() string { return d.name }

func (d *DeepSeek) Check(ctx context.Context) model.UsageReport {
	body := `{"model":"deepseek-chat","messages":[{"role":"user","content":"hi"}],"max_tokens":1}`
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v1/chat/completions", strings.NewReader(body))
	if err != nil {
		return model.ErrorReport(d.name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return model.ErrorReport(d.name, fmt.Errorf("probe chat completions endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ErrorReport(d.name, fmt.Errorf("deepseek returned status %d", resp.StatusCode))
	}

	pct, remaining, limit, err := usageFromHeaders(resp.Header,
		"X-RateLimit-Limit-Requests", "X-RateLimit-Remaining-Requests")
	if err != nil {
		return model.ErrorReport(d.name, err)
	}

	return model.UsageReport{
		Provider:     d.name,
		UsagePercent: pct,
		Remaining:    remaining,
		Limit:        limit,
		ResetTime:    resp.Header.Get("X-RateLimit-Reset-Requests"),
		Status:       model.StatusOK,
		CheckedAt:    time.Now().UTC(),
	}
}

package checkers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

const miniMaxDefaultBaseURL = "https://api.minimaxi.com"

// MiniMax probes the Anthropic-compatible messages endpoint and reads
// the X-RateLimit response headers.
type MiniMax struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewMiniMax creates a MiniMax rate-limit checker.
func NewMiniMax(cfg Config) *MiniMax {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = miniMaxDefaultBaseURL
	}
	return &MiniMax{
		name:    cfg.Name,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (m *MiniMax) Name() string { return m.name }

func (m *MiniMax) Check(ctx context.Context) model.UsageReport {
	body := `{"model":"MiniMax-M2.1","messages":[{"role":"user","content":"hi"}],"max_tokens":1}`
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/anthropic/v1/messages", strings.NewReader(body))
	if err != nil {
		return model.ErrorReport(m.name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return model.ErrorReport(m.name, fmt.Errorf("probe messages endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return model.ErrorReport(m.name, fmt.Errorf("minimax returned status %d", resp.StatusCode))
	}

	pct, remaining, limit, err := usageFromHeaders(resp.Header,
		"X-RateLimit-Limit", "X-RateLimit-Remaining")
	if err != nil {
		return model.ErrorReport(m.name, err)
	}

	return model.UsageReport{
		Provider:     m.name,
		UsagePercent: pct,
		Remaining:    remaining,
		Limit:        limit,
		ResetTime:    resp.Header.Get("X-RateLimit-Reset"),
		Status:       model.StatusOK,
		CheckedAt:    time.Now().UTC(),
	}
}

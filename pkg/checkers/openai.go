package checkers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

const openAIDefaultBaseURL = "https://api.openai.com/v1"

// OpenAI probes the embeddings endpoint and reads the X-RateLimit
// response headers. The probe uses the cheapest embedding model so each
// check consumes a negligible amount of quota.
type OpenAI struct {
	name         string
	apiKey       string
	organization string
	baseURL      string
	client       *http.Client
}

// NewOpenAI creates an OpenAI rate-limit checker.
func NewOpenAI(cfg Config) *OpenAI {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	return &OpenAI{
		name:         cfg.Name,
		apiKey:       cfg.APIKey,
		organization: cfg.Organization,
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       newHTTPClient(),
	}
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Check(ctx context.Context) model.UsageReport {
	body := `{"input":"ping","model":"text-embedding-3-small"}`
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/embeddings", strings.NewReader(body))
	if err != nil {
		return model.ErrorReport(o.name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if o.organization != "" {
		req.Header.Set("OpenAI-Organization", o.organization)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return model.ErrorReport(o.name, fmt.Errorf("probe embeddings endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ErrorReport(o.name, fmt.Errorf("openai returned status %d", resp.StatusCode))
	}

	pct, remaining, limit, err := usageFromHeaders(resp.Header,
		"x-ratelimit-limit-requests", "x-ratelimit-remaining-requests")
	if err != nil {
		return model.ErrorReport(o.name, err)
	}

	return model.UsageReport{
		Provider:     o.name,
		UsagePercent: pct,
		Remaining:    remaining,
		Limit:        limit,
		ResetTime:    resp.Header.Get("x-ratelimit-reset-requests"),
		Status:       model.StatusOK,
		CheckedAt:    time.Now().UTC(),
	}
}

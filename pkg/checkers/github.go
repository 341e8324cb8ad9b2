package checkers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

const gitHubDefaultBaseURL = "https://api.github.com"

// GitHub reads the dedicated /rate_limit endpoint, which does not count
// against the core quota, and reports usage of the core resource.
type GitHub struct {
	name    string
	token   string
	baseURL string
	client  *http.Client
}

// NewGitHub creates a GitHub rate-limit checker.
func NewGitHub(cfg Config) *GitHub {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = gitHubDefaultBaseURL
	}
	return &GitHub{
		name:    cfg.Name,
		token:   cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(),
	}
}

func (g *GitHub) Name() string { return g.name }

type gitHubRateLimitResponse struct {
	Resources struct {
		Core struct {
			Limit     int64 `json:"limit"`
			Remaining int64 `json:"remaining"`
			Reset     int64 `json:"reset"`
		} `json:"core"`
	} `json:"resources"`
}

func (g *GitHub) Check(ctx context.Context) model.UsageReport {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/rate_limit", nil)
	if err != nil {
		return model.ErrorReport(g.name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return model.ErrorReport(g.name, fmt.Errorf("query rate_limit endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.ErrorReport(g.name, fmt.Errorf("github returned status %d", resp.StatusCode))
	}

	var body gitHubRateLimitResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.ErrorReport(g.name, fmt.Errorf("decode rate_limit response: %w", err))
	}

	core := body.Resources.Core
	pct, err := usagePercent(core.Limit, core.Remaining)
	if err != nil {
		return model.ErrorReport(g.name, err)
	}

	return model.UsageReport{
		Provider:     g.name,
		UsagePercent: pct,
		Remaining:    core.Remaining,
		Limit:        core.Limit,
		ResetTime:    strconv.FormatInt(core.Reset, 10),
		Status:       model.StatusOK,
		CheckedAt:    time.Now().UTC(),
	}
}

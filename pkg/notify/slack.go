package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// Slack posts alerts to a Slack incoming webhook.
type Slack struct {
	webhookURL string
	channel    string
	client     *http.Client
}

// NewSlack creates a Slack webhook channel.
func NewSlack(webhookURL, channel string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		channel:    channel,
		client:     newHTTPClient(),
	}
}

func (s *Slack) Type() string { return "slack" }

func (s *Slack) Validate() error {
	if s.webhookURL == "" {
		return fmt.Errorf("slack: webhook_url is required")
	}
	return nil
}

func (s *Slack) Send(ctx context.Context, event model.AlertEvent) error {
	color := "#36a64f" // green
	switch event.Level {
	case model.LevelWarning:
		color = "#ff9900" // orange
	case model.LevelCritical:
		color = "#ff0000" // red
	}

	payload := slackPayload{
		Channel: s.channel,
		Attachments: []slackAttachment{
			{
				Color: color,
				Title: event.Title,
				Fields: []slackField{
					{Title: "Provider", Value: event.Checker, Short: true},
					{Title: "Level", Value: string(event.Level), Short: true},
					{Title: "Usage", Value: fmt.Sprintf("%.1f%%", event.UsagePercent), Short: true},
					{Title: "Remaining", Value: model.FormatCount(event.Remaining), Short: true},
					{Title: "Limit", Value: model.FormatCount(event.Limit), Short: true},
				},
				Footer: "API Rate Guardian",
				Ts:     event.FiredAt.Unix(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}

type slackPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Fields []slackField `json:"fields"`
	Footer string       `json:"footer"`
	Ts     int64        `json:"ts"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

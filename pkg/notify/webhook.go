package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// Webhook posts alerts to a generic HTTP endpoint as JSON.
type Webhook struct {
	url    string
	secret string
	client *http.Client
}

// NewWebhook creates a generic webhook channel.
// If secret is non-empty, requests are signed with HMAC-SHA256.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		url:    url,
		secret: secret,
		client: newHTTPClient(),
	}
}

func (w *Webhook) Type() string { return "webhook" }

func (w *Webhook) Validate() error {
	if w.url == "" {
		return fmt.Errorf("webhook: url is required")
	}
	return nil
}

type webhookPayload struct {
	Event     string           `json:"event"`
	Timestamp string           `json:"timestamp"`
	Alert     model.AlertEvent `json:"alert"`
}

func (w *Webhook) Send(ctx context.Context, event model.AlertEvent) error {
	payload := webhookPayload{
		Event:     "rate_limit_alert",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Alert:     event,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "API-Rate-Guardian/1.0")

	if w.secret != "" {
		sig := computeHMAC(body, []byte(w.secret))
		req.Header.Set("X-Signature-256", "sha256="+sig)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func computeHMAC(message, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

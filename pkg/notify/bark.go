package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

const barkDefaultServer = "https://api.day.app"

// Bark sends iOS push notifications through a Bark server.
type Bark struct {
	key    string
	server string
	client *http.Client
}

// NewBark creates a Bark push channel. An empty server selects the
// public api.day.app instance.
func NewBark(key, server string) *Bark {
	if server == "" {
		server = barkDefaultServer
	}
	return &Bark{
		key:    key,
		server: server,
		client: newHTTPClient(),
	}
}

func (b *Bark) Type() string { return "bark" }

func (b *Bark) Validate() error {
	if b.key == "" {
		return fmt.Errorf("bark: key is required")
	}
	return nil
}

type barkPush struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Key   string `json:"key"`
	Level string `json:"level"`
}

func (b *Bark) Send(ctx context.Context, event model.AlertEvent) error {
	// Bark's own levels: critical bypasses focus modes, active is the default.
	level := "active"
	if event.Level == model.LevelCritical {
		level = "critical"
	}

	body, err := json.Marshal(barkPush{
		Title: event.Title,
		Body:  event.Message,
		Key:   b.key,
		Level: level,
	})
	if err != nil {
		return fmt.Errorf("marshal bark payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.server+"/push", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create bark request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send bark alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bark returned status %d", resp.StatusCode)
	}
	return nil
}

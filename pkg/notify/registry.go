package notify

import (
	"fmt"
	"sort"
)

// Settings is the union of per-channel connection parameters as loaded
// from the channel map in the configuration file. Each channel type
// reads only its own fields and rejects missing required ones through
// Validate.
type Settings struct {
	Enabled bool `mapstructure:"enabled"`

	// webhook
	URL    string `mapstructure:"url"`
	Secret string `mapstructure:"secret"`

	// slack
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`

	// telegram
	Token  string `mapstructure:"token"`
	ChatID string `mapstructure:"chat_id"`

	// email
	SMTPHost  string `mapstructure:"smtp_host"`
	SMTPPort  int    `mapstructure:"smtp_port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	FromEmail string `mapstructure:"from_email"`
	ToEmail   string `mapstructure:"to_email"`

	// bark
	Key    string `mapstructure:"key"`
	Server string `mapstructure:"server"`
}

var channelFactories = map[string]func(Settings) Channel{
	"console":  func(Settings) Channel { return NewConsole() },
	"webhook":  func(s Settings) Channel { return NewWebhook(s.URL, s.Secret) },
	"slack":    func(s Settings) Channel { return NewSlack(s.WebhookURL, s.Channel) },
	"telegram": func(s Settings) Channel { return NewTelegram(s.Token, s.ChatID) },
	"bark":     func(s Settings) Channel { return NewBark(s.Key, s.Server) },
	"email": func(s Settings) Channel {
		return NewEmail(s.SMTPHost, s.SMTPPort, s.Username, s.Password, s.FromEmail, s.ToEmail)
	},
}

// Types returns the supported channel type tags in sorted order.
func Types() []string {
	names := make([]string, 0, len(channelFactories))
	for name := range channelFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds and validates the channel for a type tag. Unknown types
// and incomplete settings are reported here, at construction time.
func New(channelType string, settings Settings) (Channel, error) {
	build, ok := channelFactories[channelType]
	if !ok {
		return nil, fmt.Errorf("unsupported channel type %q (supported: %v)", channelType, Types())
	}

	ch := build(settings)
	if err := ch.Validate(); err != nil {
		return nil, err
	}
	return ch, nil
}

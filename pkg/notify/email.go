package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// Email sends alerts over SMTP with STARTTLS.
type Email struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

// NewEmail creates an SMTP channel.
func NewEmail(host string, port int, username, password, from, to string) *Email {
	if port == 0 {
		port = 587
	}
	return &Email{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
	}
}

func (e *Email) Type() string { return "email" }

func (e *Email) Validate() error {
	if e.host == "" {
		return fmt.Errorf("email: smtp_host is required")
	}
	if e.from == "" || e.to == "" {
		return fmt.Errorf("email: from_email and to_email are required")
	}
	return nil
}

func (e *Email) Send(ctx context.Context, event model.AlertEvent) error {
	addr := net.JoinHostPort(e.host, fmt.Sprintf("%d", e.port))

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.from)
	fmt.Fprintf(&msg, "To: %s\r\n", e.to)
	fmt.Fprintf(&msg, "Subject: [API Rate Guardian] %s\r\n", event.Title)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&msg, "%s\r\n\r\n%s\r\n\r\nLevel: %s\r\n", event.Title, event.Message, event.Level)

	var auth smtp.Auth
	if e.username != "" {
		auth = smtp.PlainAuth("", e.username, e.password, e.host)
	}

	// smtp.SendMail has no context support; run it in a goroutine and
	// honor cancellation so a stuck SMTP server cannot wedge a fan-out.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, e.from, []string{e.to}, []byte(msg.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email alert: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send email alert: %w", ctx.Err())
	}
}

// Package email delivers transactional mail through the configured provider.
package email

import (
	"context"
	"fmt"
	"time"

	"leadportal_backend/platform/config"
	"leadportal_backend/platform/sanitize"
)

// Message is a single outgoing HTML email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string // optional plain-text alternative
}

// PlainText is the text/plain alternative of msg, derived from the HTML
// body when no text part was given.
func (msg Message) PlainText() string {
	if msg.Text != "" {
		return msg.Text
	}
	return sanitize.StripHTML(msg.HTML)
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender drops every message. Used when email is disabled.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msg Message) error {
	return nil
}

// NewSender builds the Sender for the configured provider.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case config.EmailProviderBrevo:
		return NewBrevoSender(cfg.GetBrevoAPIKey(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName()), nil
	case config.EmailProviderSMTP:
		return NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		), nil
	case config.EmailProviderSendGrid:
		return NewSendGridSender(cfg.GetSendGridAPIKey(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName()), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.GetEmailProvider())
	}
}

const defaultSendTimeout = 10 * time.Second

package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/LiquidN2/natours/store"
)

// SMTPConfig holds transport settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers mail through a single SMTP endpoint.
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer returns a mailer for the given endpoint.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, fmt.Errorf("smtp host and port required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address required")
	}
	return &SMTPMailer{config: cfg}, nil
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, user *store.User, confirmURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nWelcome to Natours! Please confirm your email address:\r\n%s\r\n",
		firstName(user.Name), confirmURL,
	)
	return m.send(ctx, user.Email, "Welcome to the Natours family!", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, user *store.User, resetURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nForgot your password? Submit a new one here:\r\n%s\r\n\r\nThe link is valid for 10 minutes. If you didn't ask for a reset, ignore this email.\r\n",
		firstName(user.Name), resetURL,
	)
	return m.send(ctx, user.Email, "Your password reset token (valid for 10 minutes)", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.config.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	// net/smtp has no context support; delivery timeouts are the SMTP
	// server connection's concern. ctx is checked once before dialing.
	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func firstName(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

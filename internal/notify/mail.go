package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Dialer is the part of gomail.Dialer the mailer uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends HTML mail through an SMTP relay (Brevo in production).
type SMTPMailer struct {
	dialer Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	if from == "" {
		from = user
	}
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

// NewSMTPMailerWithDialer is used by tests to capture outgoing messages.
func NewSMTPMailerWithDialer(d Dialer, from string) *SMTPMailer {
	return &SMTPMailer{dialer: d, from: from}
}

func (m *SMTPMailer) SendMail(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 {
		return errors.New("mail: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	err := m.dialer.DialAndSend(msg)
	observe("email", err)
	if err != nil {
		return fmt.Errorf("mail: send %q: %w", subject, err)
	}
	return nil
}

// LogMailer is used when SMTP is not configured.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log.With("channel", "email")}
}

func (m *LogMailer) SendMail(ctx context.Context, to []string, subject, _ string) error {
	m.log.InfoContext(ctx, "email skipped, smtp not configured",
		"recipients", len(to), "subject", subject)
	return nil
}

package core

import "context"

// SMSSender delivers a text message to a mobile number.
type SMSSender interface {
	SendSMS(ctx context.Context, mobile, body string) error
}

// Mailer delivers an HTML e-mail.
type Mailer interface {
	SendMail(ctx context.Context, to []string, subject, html string) error
}

type PushMessage struct {
	Title    string
	Body     string
	ImageURL string
	Data     map[string]string
}

// PushBatchResult summarises one multicast send.
type PushBatchResult struct {
	Success int
	Failure int
	// Unregistered lists tokens the provider reported as no longer valid.
	Unregistered []string
}

// PushSender sends one message to a batch of device tokens.
type PushSender interface {
	SendBatch(ctx context.Context, tokens []string, msg PushMessage) (PushBatchResult, error)
}

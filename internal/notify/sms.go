// Package notify holds the outbound delivery adapters: SMS, e-mail and
// Firebase Cloud Messaging push.
package notify

import (
	"context"
	"log/slog"

	"github.com/notifycsc/notify-csc/internal/core"
)

// LogSMSSender stands in for an SMS gateway: it records the message in the
// log and reports success.
type LogSMSSender struct {
	log *slog.Logger
}

func NewLogSMSSender(log *slog.Logger) *LogSMSSender {
	return &LogSMSSender{log: log.With("channel", "sms")}
}

func (s *LogSMSSender) SendSMS(ctx context.Context, mobile, body string) error {
	if err := ctx.Err(); err != nil {
		observe("sms", err)
		return err
	}
	s.log.InfoContext(ctx, "sms dispatched",
		"to", core.MaskMobileNumber(mobile),
		"length", len(body))
	observe("sms", nil)
	return nil
}

package notify

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/notifycsc/notify-csc/internal/core"
)

// MaxMulticastTokens is the FCM limit for one multicast request.
const MaxMulticastTokens = 500

// Multicaster is the part of messaging.Client the sender uses.
type Multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMSender pushes announcements through Firebase Cloud Messaging.
type FCMSender struct {
	client Multicaster
}

// NewFCMSender initialises a Firebase app from a service-account file.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: messaging client: %w", err)
	}
	return &FCMSender{client: client}, nil
}

func NewFCMSenderWithClient(c Multicaster) *FCMSender {
	return &FCMSender{client: c}
}

func (s *FCMSender) SendBatch(ctx context.Context, tokens []string, msg core.PushMessage) (core.PushBatchResult, error) {
	if len(tokens) == 0 {
		return core.PushBatchResult{}, nil
	}
	if len(tokens) > MaxMulticastTokens {
		return core.PushBatchResult{}, fmt.Errorf("fcm: batch of %d exceeds %d tokens", len(tokens), MaxMulticastTokens)
	}

	resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title:    msg.Title,
			Body:     msg.Body,
			ImageURL: msg.ImageURL,
		},
		Data: msg.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
				Image: msg.ImageURL,
			},
		},
	})
	observe("push", err)
	if err != nil {
		return core.PushBatchResult{}, fmt.Errorf("fcm: multicast: %w", err)
	}

	res := core.PushBatchResult{Success: resp.SuccessCount, Failure: resp.FailureCount}
	for i, r := range resp.Responses {
		if r.Success || r.Error == nil || i >= len(tokens) {
			continue
		}
		if messaging.IsRegistrationTokenNotRegistered(r.Error) {
			res.Unregistered = append(res.Unregistered, tokens[i])
		}
	}
	return res, nil
}

// LogPushSender is used when Firebase credentials are not configured. It
// counts every token as delivered.
type LogPushSender struct {
	log *slog.Logger
}

func NewLogPushSender(log *slog.Logger) *LogPushSender {
	return &LogPushSender{log: log.With("channel", "push")}
}

func (s *LogPushSender) SendBatch(ctx context.Context, tokens []string, msg core.PushMessage) (core.PushBatchResult, error) {
	s.log.InfoContext(ctx, "push skipped, firebase not configured",
		"tokens", len(tokens), "title", msg.Title)
	return core.PushBatchResult{Success: len(tokens)}, nil
}

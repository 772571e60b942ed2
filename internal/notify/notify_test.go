package notify

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/platform/logging"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPMailer_Send(t *testing.T) {
	d := &fakeDialer{}
	m := NewSMTPMailerWithDialer(d, "noreply@notifycsc.in")

	err := m.SendMail(context.Background(), []string{"admin@notifycsc.in"}, "Digest", "<p>hi</p>")
	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"noreply@notifycsc.in"}, d.sent[0].GetHeader("From"))
	assert.Equal(t, []string{"admin@notifycsc.in"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Digest"}, d.sent[0].GetHeader("Subject"))
}

func TestSMTPMailer_Errors(t *testing.T) {
	d := &fakeDialer{err: errors.New("relay down")}
	m := NewSMTPMailerWithDialer(d, "noreply@notifycsc.in")

	assert.Error(t, m.SendMail(context.Background(), nil, "x", "y"))
	assert.ErrorContains(t, m.SendMail(context.Background(), []string{"a@b.c"}, "x", "y"), "relay down")
}

type fakeMulticaster struct {
	got  *messaging.MulticastMessage
	resp *messaging.BatchResponse
	err  error
}

func (f *fakeMulticaster) SendEachForMulticast(_ context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.got = m
	return f.resp, f.err
}

func TestFCMSender_SendBatch(t *testing.T) {
	fake := &fakeMulticaster{resp: &messaging.BatchResponse{
		SuccessCount: 1,
		FailureCount: 1,
		Responses: []*messaging.SendResponse{
			{Success: true, MessageID: "m1"},
			{Success: false, Error: errors.New("transient")},
		},
	}}
	s := NewFCMSenderWithClient(fake)

	res, err := s.SendBatch(context.Background(), []string{"t1", "t2"}, core.PushMessage{Title: "Hello", Body: "World"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success)
	assert.Equal(t, 1, res.Failure)
	assert.Empty(t, res.Unregistered)
	assert.Equal(t, []string{"t1", "t2"}, fake.got.Tokens)
	assert.Equal(t, "Hello", fake.got.Notification.Title)
}

func TestFCMSender_RejectsOversizedBatch(t *testing.T) {
	s := NewFCMSenderWithClient(&fakeMulticaster{})
	tokens := make([]string, MaxMulticastTokens+1)

	_, err := s.SendBatch(context.Background(), tokens, core.PushMessage{})
	assert.Error(t, err)
}

func TestFCMSender_PropagatesTransportError(t *testing.T) {
	s := NewFCMSenderWithClient(&fakeMulticaster{err: errors.New("unavailable")})

	_, err := s.SendBatch(context.Background(), []string{"t1"}, core.PushMessage{})
	assert.ErrorContains(t, err, "unavailable")
}

func TestLogSenders(t *testing.T) {
	log := logging.Discard()
	ctx := context.Background()

	assert.NoError(t, NewLogSMSSender(log).SendSMS(ctx, "9876543210", "hello"))
	assert.NoError(t, NewLogMailer(log).SendMail(ctx, []string{"a@b.c"}, "s", "b"))

	res, err := NewLogPushSender(log).SendBatch(ctx, []string{"a", "b"}, core.PushMessage{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Success)
}

func TestLogSMSSender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewLogSMSSender(logging.Discard()).SendSMS(ctx, "9876543210", "hello"))
}

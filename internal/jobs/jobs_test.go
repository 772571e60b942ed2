package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/platform/logging"
	"github.com/notifycsc/notify-csc/internal/store/memory"
)

type fakePushSender struct {
	mu       sync.Mutex
	batches  [][]string
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	failAll  bool
	dead     map[string]bool
}

func (f *fakePushSender) SendBatch(_ context.Context, tokens []string, _ core.PushMessage) (core.PushBatchResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxSeen.Load()
		if n <= cur || f.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.batches = append(f.batches, tokens)
	f.mu.Unlock()

	if f.failAll {
		return core.PushBatchResult{}, errors.New("fcm unavailable")
	}
	var res core.PushBatchResult
	for _, t := range tokens {
		if f.dead[t] {
			res.Failure++
			res.Unregistered = append(res.Unregistered, t)
		} else {
			res.Success++
		}
	}
	return res, nil
}

func seedPush(t *testing.T, store *memory.Store, tokens int) core.Announcement {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	for i := 0; i < tokens; i++ {
		require.NoError(t, store.DeviceTokens().Upsert(ctx, core.DeviceToken{
			Token: fmt.Sprintf("tok-%03d", i), Platform: "web", CreatedAt: now, UpdatedAt: now,
		}))
	}
	a := core.Announcement{
		ID: "a-1", Title: "Camp on Saturday", Content: "Insurance renewal camp at the CSC centre.",
		Published: true, PushStatus: core.PushStatusPending, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Announcements().Create(ctx, a))
	return a
}

func TestPushWorker_BatchesAndPrunes(t *testing.T) {
	store := memory.New()
	a := seedPush(t, store, 25)
	sender := &fakePushSender{dead: map[string]bool{"tok-003": true, "tok-017": true}}

	w := NewPushWorker(store.Announcements(), store.DeviceTokens(), sender, 10, 2, time.Minute, logging.Discard())
	require.NoError(t, w.processPending(context.Background()))

	assert.Len(t, sender.batches, 3)
	assert.LessOrEqual(t, sender.maxSeen.Load(), int32(2))

	got, err := store.Announcements().Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, core.PushStatusSent, got.PushStatus)
	assert.Equal(t, 23, got.PushSent)
	assert.Equal(t, 2, got.PushFailed)

	tokens, err := store.DeviceTokens().AllTokens(context.Background())
	require.NoError(t, err)
	assert.Len(t, tokens, 23)
	assert.NotContains(t, tokens, "tok-003")

	// Nothing pending any more.
	require.NoError(t, w.processPending(context.Background()))
	assert.Len(t, sender.batches, 3)
}

func TestPushWorker_AllBatchesFail(t *testing.T) {
	store := memory.New()
	a := seedPush(t, store, 4)
	sender := &fakePushSender{failAll: true}

	w := NewPushWorker(store.Announcements(), store.DeviceTokens(), sender, 2, 4, time.Minute, logging.Discard())
	require.NoError(t, w.processPending(context.Background()))

	got, err := store.Announcements().Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, core.PushStatusFailed, got.PushStatus)
	assert.Equal(t, 4, got.PushFailed)
}

func TestChunk(t *testing.T) {
	assert.Nil(t, chunk(nil, 3))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, chunk([]string{"a", "b", "c"}, 2))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "short", summarize("short", 10))
	assert.Equal(t, "abc…", summarize("abcdefgh", 4))
}

type fakeMailer struct {
	to      []string
	subject string
	body    string
	calls   int
}

func (f *fakeMailer) SendMail(_ context.Context, to []string, subject, html string) error {
	f.calls++
	f.to, f.subject, f.body = to, subject, html
	return nil
}

func TestDigestJob_Run(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	clock := core.WithClock(func() time.Time { return now })

	require.NoError(t, store.Users().Create(ctx, core.User{ID: "admin-1", Name: "Admin", Email: "admin@notifycsc.in", Role: core.RoleAdmin, Status: core.UserStatusApproved}))
	require.NoError(t, store.Users().Create(ctx, core.User{ID: "admin-2", Name: "Pending", Email: "p@notifycsc.in", Role: core.RoleAdmin, Status: core.UserStatusPending}))
	require.NoError(t, store.Users().Create(ctx, core.User{ID: "staff-1", Name: "Staff", Email: "s@notifycsc.in", Role: core.RoleStaff, Status: core.UserStatusApproved}))
	require.NoError(t, store.Insurances().Create(ctx, core.Insurance{
		ID: "i-1", RegistrationNumber: "KL01AB1234", PolicyExpiryDate: now.AddDate(0, 0, 3),
	}))

	mailer := &fakeMailer{}
	insurances := core.NewInsuranceService(store.Insurances(), clock)
	users := core.NewUserService(store.Users(), mailer, logging.Discard(), clock)
	job := NewDigestJob("0 8 * * *", insurances, users, mailer, logging.Discard())
	job.clock = func() time.Time { return now }

	require.NoError(t, job.Run(ctx))
	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, []string{"admin@notifycsc.in"}, mailer.to)
	assert.Contains(t, mailer.subject, "10 Mar 2025")
	assert.Contains(t, mailer.body, "Expiring in 0-7 days</td><td>1")
}

func TestDigestJob_NoAdmins(t *testing.T) {
	store := memory.New()
	mailer := &fakeMailer{}
	job := NewDigestJob("@daily",
		core.NewInsuranceService(store.Insurances()),
		core.NewUserService(store.Users(), mailer, logging.Discard()),
		mailer, logging.Discard())

	require.NoError(t, job.Run(context.Background()))
	assert.Zero(t, mailer.calls)
}

func TestDigestJob_InvalidScheduleReturns(t *testing.T) {
	store := memory.New()
	job := NewDigestJob("not a cron spec",
		core.NewInsuranceService(store.Insurances()),
		core.NewUserService(store.Users(), &fakeMailer{}, logging.Discard()),
		&fakeMailer{}, logging.Discard())

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start should return on an invalid schedule")
	}
}

package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/store/memory"
)

func newAnnouncementService(t *testing.T) (core.AnnouncementService, *memory.Store) {
	t.Helper()
	store := memory.New()
	return core.NewAnnouncementService(store.Announcements(), store.DeviceTokens(), fixedClock()), store
}

func TestAnnouncementService_CreateQueuesPush(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAnnouncementService(t)

	tests := []struct {
		name      string
		published bool
		notify    bool
		want      core.PushStatus
	}{
		{"published with notify", true, true, core.PushStatusPending},
		{"published without notify", true, false, core.PushStatusNone},
		{"draft with notify", false, true, core.PushStatusNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svc.Create(ctx, core.AnnouncementInput{
				Title: " Renewal camp ", Content: "Saturday at the CSC centre.",
				Published: tt.published, Notify: tt.notify,
			}, admin)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.PushStatus)
			assert.Equal(t, "Renewal camp", a.Title)
			assert.Equal(t, admin.UserID, a.CreatedBy)
		})
	}

	_, err := svc.Create(ctx, core.AnnouncementInput{Title: "", Content: "x"}, admin)
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = svc.Create(ctx, core.AnnouncementInput{Title: "x", Content: "x", ImageURL: "not a url"}, admin)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestAnnouncementService_UpdateRequeues(t *testing.T) {
	ctx := context.Background()
	svc, store := newAnnouncementService(t)

	a, err := svc.Create(ctx, core.AnnouncementInput{Title: "Draft", Content: "Body"}, admin)
	require.NoError(t, err)

	published := true
	a, err = svc.Update(ctx, a.ID, core.AnnouncementPatch{Published: &published, Notify: true})
	require.NoError(t, err)
	assert.Equal(t, core.PushStatusPending, a.PushStatus)

	require.NoError(t, store.Announcements().UpdatePushResult(ctx, a.ID, core.PushStatusSent, 10, 2, fixedNow))

	title := "Final"
	a, err = svc.Update(ctx, a.ID, core.AnnouncementPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, core.PushStatusSent, a.PushStatus)
	assert.Equal(t, 10, a.PushSent)

	a, err = svc.Update(ctx, a.ID, core.AnnouncementPatch{Notify: true})
	require.NoError(t, err)
	assert.Equal(t, core.PushStatusPending, a.PushStatus)
	assert.Zero(t, a.PushSent)
	assert.Zero(t, a.PushFailed)

	_, err = svc.Update(ctx, "missing", core.AnnouncementPatch{Title: &title})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAnnouncementService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAnnouncementService(t)

	pub, err := svc.Create(ctx, core.AnnouncementInput{Title: "Public", Content: "Body", Published: true}, admin)
	require.NoError(t, err)
	_, err = svc.Create(ctx, core.AnnouncementInput{Title: "Draft", Content: "Body"}, admin)
	require.NoError(t, err)

	page, err := svc.ListPublished(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Announcements, 1)
	assert.Equal(t, pub.ID, page.Announcements[0].ID)

	page, err = svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 1, page.Pages)

	require.NoError(t, svc.Delete(ctx, pub.ID, admin))
	_, err = svc.Get(ctx, pub.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, pub.ID, admin), core.ErrNotFound)

	page, err = svc.ListPublished(ctx, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Announcements)
	assert.Empty(t, page.Announcements)
}

func TestAnnouncementService_RegisterDevice(t *testing.T) {
	ctx := context.Background()
	svc, store := newAnnouncementService(t)

	require.NoError(t, svc.RegisterDevice(ctx, core.DeviceInput{Token: " fcm-token-1 "}))
	require.NoError(t, svc.RegisterDevice(ctx, core.DeviceInput{Token: "fcm-token-1", Platform: "android"}))
	require.NoError(t, svc.RegisterDevice(ctx, core.DeviceInput{Token: "fcm-token-2", Platform: "ios"}))

	tokens, err := store.DeviceTokens().AllTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fcm-token-1", "fcm-token-2"}, tokens)

	assert.ErrorIs(t, svc.RegisterDevice(ctx, core.DeviceInput{Token: ""}), core.ErrValidation)
	assert.ErrorIs(t, svc.RegisterDevice(ctx, core.DeviceInput{Token: "t", Platform: "blackberry"}), core.ErrValidation)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifycsc/notify-csc/internal/core"
)

func TestInsuranceRepo_MatchesAndSorts(t *testing.T) {
	ctx := context.Background()
	s := New()
	repo := s.Insurances()
	require.NoError(t, s.Users().Create(ctx, core.User{ID: "u-1", Name: "Staff One", Email: "s@notifycsc.in"}))

	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, ins := range []core.Insurance{
		{ID: "b", RegistrationNumber: "KL01AB1234", MobileNumber: "9000000001", PolicyExpiryDate: base, CreatedBy: "u-1"},
		{ID: "a", RegistrationNumber: "KL01AB1234", MobileNumber: "9000000002", AlternateMobileNumber: "9000000001", PolicyExpiryDate: base, CreatedBy: "u-1"},
		{ID: "c", RegistrationNumber: "KL02ZZ0001", MobileNumber: "9000000003", PolicyExpiryDate: base.AddDate(0, 0, 5)},
	} {
		require.NoError(t, repo.Create(ctx, ins))
	}
	assert.ErrorIs(t, repo.Create(ctx, core.Insurance{ID: "a"}), core.ErrConflict)

	got, err := repo.Find(ctx, core.InsuranceFilter{Mobile: "9000000001"}, core.InsuranceListOptions{Populate: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Equal expiry dates fall back to ID order.
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "Staff One", got[0].CreatedByName)

	desc, err := repo.Find(ctx, core.InsuranceFilter{}, core.InsuranceListOptions{Sort: core.SortByExpiryDesc})
	require.NoError(t, err)
	assert.Equal(t, "c", desc[0].ID)

	end := base.AddDate(0, 0, 1)
	n, err := repo.Count(ctx, core.InsuranceFilter{ExpiryRanges: []core.DateRange{{From: &base}, {Before: &end}}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	none, err := repo.Find(ctx, core.InsuranceFilter{}, core.InsuranceListOptions{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsuranceRepo_SoftDeleteHides(t *testing.T) {
	ctx := context.Background()
	repo := New().Insurances()
	require.NoError(t, repo.Create(ctx, core.Insurance{ID: "x", RegistrationNumber: "KL01AB1234"}))

	at := time.Now()
	require.NoError(t, repo.SoftDelete(ctx, "x", "u-1", at))

	_, err := repo.Get(ctx, "x", false)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = repo.FindOne(ctx, core.InsuranceFilter{RegistrationNumber: "KL01AB1234"}, core.SortByExpiryDesc)
	assert.ErrorIs(t, err, core.ErrNotFound)

	name := "n"
	_, err = repo.Update(ctx, "x", core.InsurancePatch{CustomerName: &name}, at)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeviceTokenRepo_UpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := New().DeviceTokens()
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.AddDate(0, 1, 0)

	require.NoError(t, repo.Upsert(ctx, core.DeviceToken{Token: "t", Platform: "web", CreatedAt: first, UpdatedAt: first}))
	require.NoError(t, repo.Upsert(ctx, core.DeviceToken{Token: "t", Platform: "android", CreatedAt: later, UpdatedAt: later}))

	repo.s.mu.RLock()
	d := repo.s.devices["t"]
	repo.s.mu.RUnlock()
	assert.Equal(t, first, d.CreatedAt)
	assert.Equal(t, "android", d.Platform)
}

func TestAnnouncementRepo_PendingPushOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := New().Announcements()
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, core.Announcement{ID: "new", Published: true, PushStatus: core.PushStatusPending, UpdatedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, core.Announcement{ID: "old", Published: true, PushStatus: core.PushStatusPending, UpdatedAt: t0}))
	require.NoError(t, repo.Create(ctx, core.Announcement{ID: "draft", PushStatus: core.PushStatusPending, UpdatedAt: t0}))

	got, err := repo.FindPendingPush(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "old", got[0].ID)

	got, err = repo.FindPendingPush(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

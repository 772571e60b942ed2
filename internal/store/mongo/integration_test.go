package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/platform/config"
	"github.com/notifycsc/notify-csc/internal/platform/logging"
	"github.com/notifycsc/notify-csc/internal/store/mongo"
)

// startMongo runs a throwaway MongoDB and returns a connected client with
// indexes in place. Skipped under -short or when Docker is unavailable.
func startMongo(t *testing.T) *mongo.MongoClient {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7.0")
	if err != nil {
		t.Skipf("mongo container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.NewClient(ctx, &config.Config{
		MongoURI:               uri,
		MongoDB:                "notify_csc_test",
		MongoConnectTimeoutSec: 10,
	}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	require.NoError(t, mongo.EnsureIndexes(ctx, client.DB))
	return client
}

func TestMongoRepos(t *testing.T) {
	client := startMongo(t)
	ctx := context.Background()
	const opTimeout = 5 * time.Second

	users := mongo.NewUserRepo(client.DB, opTimeout)
	insurances := mongo.NewInsuranceRepo(client.DB, users, opTimeout)
	reminders := mongo.NewReminderRepo(client.DB, opTimeout)
	announcements := mongo.NewAnnouncementRepo(client.DB, opTimeout)
	devices := mongo.NewDeviceTokenRepo(client.DB, opTimeout)

	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	today := core.StartOfDay(now)

	t.Run("users", func(t *testing.T) {
		u := core.User{ID: "u-1", Name: "Staff One", Email: "staff@notifycsc.in", Role: core.RoleStaff, Status: core.UserStatusPending, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, users.Create(ctx, u))
		assert.ErrorIs(t, users.Create(ctx, core.User{ID: "u-2", Email: "staff@notifycsc.in"}), core.ErrEmailTaken)

		got, err := users.GetByEmail(ctx, "staff@notifycsc.in")
		require.NoError(t, err)
		assert.Equal(t, "u-1", got.ID)

		require.NoError(t, users.UpdateStatus(ctx, "u-1", core.UserStatusApproved, now))
		approved, err := users.List(ctx, core.UserFilter{Status: core.UserStatusApproved})
		require.NoError(t, err)
		require.Len(t, approved, 1)

		_, err = users.Get(ctx, "nobody")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("insurances", func(t *testing.T) {
		mk := func(id, reg, name, mobile, alt string, offset int) core.Insurance {
			return core.Insurance{
				ID: id, RegistrationNumber: reg, CustomerName: name,
				MobileNumber: mobile, AlternateMobileNumber: alt,
				VehicleType: core.VehicleFourWheeler, InsuranceType: core.InsurancePackage,
				PolicyStartDate:  today.AddDate(-1, 0, offset),
				PolicyExpiryDate: today.AddDate(0, 0, offset),
				CreatedBy:        "u-1", CreatedAt: now, UpdatedAt: now,
			}
		}
		require.NoError(t, insurances.Create(ctx, mk("i-1", "KL01AB1234", "Anil Kumar", "9876543210", "", -5)))
		require.NoError(t, insurances.Create(ctx, mk("i-2", "KL01AB1234", "Anil Kumar", "9876543210", "", 20)))
		require.NoError(t, insurances.Create(ctx, mk("i-3", "KL07CD5678", "Meera Nair", "9447012345", "9876543210", 3)))
		require.NoError(t, insurances.Create(ctx, mk("i-4", "KL39E7788", "Anil Raj", "9995551234", "", -40)))

		from := today.AddDate(0, 0, -10)
		filter := core.InsuranceFilter{}.
			WithSearch("anil").
			WithStatus(core.StatusExpired, today).
			WithExpiryBetween(&from, nil)
		found, err := insurances.Find(ctx, filter, core.InsuranceListOptions{Populate: true})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "i-1", found[0].ID)
		assert.Equal(t, "Staff One", found[0].CreatedByName)

		n, err := insurances.Count(ctx, core.InsuranceFilter{Mobile: "9876543210"})
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		latest, err := insurances.FindOne(ctx, core.InsuranceFilter{RegistrationNumber: "KL01AB1234"}, core.SortByExpiryDesc)
		require.NoError(t, err)
		assert.Equal(t, "i-2", latest.ID)

		page, err := insurances.Find(ctx, core.InsuranceFilter{}, core.InsuranceListOptions{Skip: 1, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "i-1", page[0].ID)
		assert.Equal(t, "i-3", page[1].ID)

		name := "Anil K"
		updated, err := insurances.Update(ctx, "i-2", core.InsurancePatch{CustomerName: &name}, now)
		require.NoError(t, err)
		assert.Equal(t, "Anil K", updated.CustomerName)
		assert.Equal(t, "9876543210", updated.MobileNumber)

		require.NoError(t, insurances.SoftDelete(ctx, "i-2", "u-1", now))
		_, err = insurances.Get(ctx, "i-2", false)
		assert.ErrorIs(t, err, core.ErrNotFound)
		_, err = insurances.Update(ctx, "i-2", core.InsurancePatch{CustomerName: &name}, now)
		assert.ErrorIs(t, err, core.ErrNotFound)

		latest, err = insurances.FindOne(ctx, core.InsuranceFilter{RegistrationNumber: "KL01AB1234"}, core.SortByExpiryDesc)
		require.NoError(t, err)
		assert.Equal(t, "i-1", latest.ID)

		assert.ErrorIs(t, insurances.SoftDelete(ctx, "missing", "u-1", now), core.ErrNotFound)
	})

	t.Run("reminders", func(t *testing.T) {
		require.NoError(t, reminders.Create(ctx, core.Reminder{ID: "r-1", InsuranceID: "i-3", Status: core.ReminderStatusSent, CreatedAt: now}))
		require.NoError(t, reminders.Create(ctx, core.Reminder{ID: "r-2", InsuranceID: "i-3", Status: core.ReminderStatusFailed, CreatedAt: now.Add(time.Minute)}))

		list, err := reminders.ListByInsurance(ctx, "i-3")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "r-2", list[0].ID)
	})

	t.Run("announcements and devices", func(t *testing.T) {
		require.NoError(t, announcements.Create(ctx, core.Announcement{
			ID: "a-1", Title: "Camp", Content: "Saturday", Published: true,
			PushStatus: core.PushStatusPending, CreatedAt: now, UpdatedAt: now,
		}))
		require.NoError(t, announcements.Create(ctx, core.Announcement{
			ID: "a-2", Title: "Draft", Content: "Later", PushStatus: core.PushStatusNone,
			CreatedAt: now.Add(time.Minute), UpdatedAt: now,
		}))

		pending, err := announcements.FindPendingPush(ctx, 5)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "a-1", pending[0].ID)

		require.NoError(t, announcements.UpdatePushResult(ctx, "a-1", core.PushStatusSent, 2, 1, now))
		pending, err = announcements.FindPendingPush(ctx, 5)
		require.NoError(t, err)
		assert.Empty(t, pending)

		published, total, err := announcements.List(ctx, true, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, 2, published[0].PushSent)

		require.NoError(t, devices.Upsert(ctx, core.DeviceToken{Token: "t-1", Platform: "web", CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, devices.Upsert(ctx, core.DeviceToken{Token: "t-1", Platform: "android", CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, devices.Upsert(ctx, core.DeviceToken{Token: "t-2", Platform: "web", CreatedAt: now, UpdatedAt: now}))

		tokens, err := devices.AllTokens(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"t-1", "t-2"}, tokens)

		require.NoError(t, devices.Delete(ctx, []string{"t-1"}))
		tokens, err = devices.AllTokens(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"t-2"}, tokens)
	})

	assert.NoError(t, client.Ping(ctx))
}

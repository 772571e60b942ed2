package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/platform/logging"
	"github.com/notifycsc/notify-csc/internal/store/memory"
)

func newPublicFixture(t *testing.T) (core.PublicInsuranceService, core.InsuranceService) {
	t.Helper()
	store := memory.New()
	seedUsers(t, store)
	return core.NewPublicInsuranceService(store.Insurances(), logging.Discard(), fixedClock()),
		core.NewInsuranceService(store.Insurances(), fixedClock())
}

func TestCheckByMobile_MatchesPrimaryAndAlternate(t *testing.T) {
	ctx := context.Background()
	public, svc := newPublicFixture(t)

	mustAdd(t, svc, input("KL07AB1234", "Anil Kumar", "9876543210", day(5)), staff.UserID)
	alt := input("KL01BC4321", "Meera Nair", "9447012345", day(40))
	alt.AlternateMobileNumber = "9876543210"
	mustAdd(t, svc, alt, staff.UserID)
	mustAdd(t, svc, input("KL39C7788", "Suresh", "9995551234", day(10)), staff.UserID)

	got, err := public.CheckByMobile(ctx, " 9876543210 ")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Latest expiry first.
	assert.Equal(t, "KL******21", got[0].MaskedVehicleNumber)
	assert.Equal(t, core.PublicStatusActive, got[0].InsuranceStatus)
	require.NotNil(t, got[0].DaysToExpiry)
	assert.Equal(t, 40, *got[0].DaysToExpiry)

	assert.Equal(t, "KL******34", got[1].MaskedVehicleNumber)
	assert.Equal(t, core.PublicStatusExpiring, got[1].InsuranceStatus)
	assert.Equal(t, 5, *got[1].DaysToExpiry)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	for _, secret := range []string{"Anil", "Meera", "9876543210", "9447012345", "KL07AB1234", "KL01BC4321", "Package"} {
		assert.NotContains(t, string(raw), secret)
	}
}

func TestCheckByVehicle_LatestExpiryWins(t *testing.T) {
	ctx := context.Background()
	public, svc := newPublicFixture(t)

	mustAdd(t, svc, input("KL01AB1234", "Old Policy", "9876543210", day(-10)), staff.UserID)
	mustAdd(t, svc, input("KL01AB1234", "Renewed", "9876543210", day(20)), staff.UserID)

	got, err := public.CheckByVehicle(ctx, "kl 01 ab-1234")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "KL******34", got[0].MaskedVehicleNumber)
	assert.Equal(t, core.PublicStatusExpiring, got[0].InsuranceStatus)
	assert.Equal(t, 20, *got[0].DaysToExpiry)
}

func TestCheckByVehicle_ExpiredRecord(t *testing.T) {
	public, svc := newPublicFixture(t)
	mustAdd(t, svc, input("KL01AB1234", "Anil", "9876543210", day(-3)), staff.UserID)

	got, err := public.CheckByVehicle(context.Background(), "KL01AB1234")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, core.PublicStatusExpired, got[0].InsuranceStatus)
	assert.Equal(t, -3, *got[0].DaysToExpiry)
}

func TestPublicLookup_NoMatch(t *testing.T) {
	ctx := context.Background()
	public, svc := newPublicFixture(t)

	ins := mustAdd(t, svc, input("KL01AB1234", "Anil", "9876543210", day(10)), staff.UserID)
	require.NoError(t, svc.SoftDelete(ctx, ins.ID, staff))

	got, err := public.CheckByVehicle(ctx, "KL01AB1234")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = public.CheckByMobile(ctx, "9876543210")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Substrings never match on the public path.
	mustAdd(t, svc, input("KL01AB12345", "Anil", "9876543219", day(10)), staff.UserID)
	got, err = public.CheckByVehicle(ctx, "KL01AB1234")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPublicLookup_InvalidInput(t *testing.T) {
	ctx := context.Background()
	public, _ := newPublicFixture(t)

	for _, m := range []string{"", "12345", "98765432100", "98765abcde"} {
		_, err := public.CheckByMobile(ctx, m)
		assert.ErrorIs(t, err, core.ErrValidation, "mobile %q", m)
	}

	_, err := public.CheckByVehicle(ctx, " - ")
	assert.ErrorIs(t, err, core.ErrValidation)
}

type brokenRepo struct {
	core.InsuranceRepo
}

func (brokenRepo) Find(context.Context, core.InsuranceFilter, core.InsuranceListOptions) ([]core.Insurance, error) {
	return nil, errors.New("connection reset")
}

func (brokenRepo) FindOne(context.Context, core.InsuranceFilter, core.InsuranceSort) (core.Insurance, error) {
	return core.Insurance{}, errors.New("connection reset")
}

func TestPublicLookup_StoreFailureIsNotNoMatch(t *testing.T) {
	public := core.NewPublicInsuranceService(brokenRepo{}, logging.Discard(), fixedClock())

	_, err := public.CheckByVehicle(context.Background(), "KL01AB1234")
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrNotFound)

	_, err = public.CheckByMobile(context.Background(), "9876543210")
	require.Error(t, err)
}

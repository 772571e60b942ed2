package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/store/memory"
)

// fixedNow is mid-morning so that midnight-based expiry dates land on
// whole calendar days.
var fixedNow = time.Date(2025, 3, 10, 10, 30, 0, 0, time.Local)

func fixedClock() core.Option {
	return core.WithClock(func() time.Time { return fixedNow })
}

// day returns local midnight n days from fixedNow.
func day(n int) time.Time {
	return core.StartOfDay(fixedNow).AddDate(0, 0, n)
}

var (
	admin = core.Principal{UserID: "admin-1", Name: "Admin", Role: core.RoleAdmin}
	staff = core.Principal{UserID: "staff-1", Name: "Staff One", Role: core.RoleStaff}
	other = core.Principal{UserID: "staff-2", Name: "Staff Two", Role: core.RoleStaff}
)

func input(reg, name, mobile string, expiry time.Time) core.InsuranceInput {
	return core.InsuranceInput{
		RegistrationNumber: reg,
		CustomerName:       name,
		MobileNumber:       mobile,
		VehicleType:        core.VehicleFourWheeler,
		InsuranceType:      core.InsurancePackage,
		PolicyStartDate:    expiry.AddDate(-1, 0, 0),
		PolicyExpiryDate:   expiry,
	}
}

func mustAdd(t *testing.T, svc core.InsuranceService, in core.InsuranceInput, owner string) core.Insurance {
	t.Helper()
	ins, err := svc.Add(context.Background(), in, owner)
	require.NoError(t, err)
	return ins
}

func seedUsers(t *testing.T, store *memory.Store) {
	t.Helper()
	for _, p := range []core.Principal{admin, staff, other} {
		require.NoError(t, store.Users().Create(context.Background(), core.User{
			ID: p.UserID, Name: p.Name, Email: p.UserID + "@notifycsc.in",
			Role: p.Role, Status: core.UserStatusApproved, CreatedAt: fixedNow,
		}))
	}
}

type fakeSMS struct {
	mu     sync.Mutex
	sent   []string
	fail   bool
	bodies []string
}

func (f *fakeSMS) SendSMS(_ context.Context, mobile, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("gateway timeout")
	}
	f.sent = append(f.sent, mobile)
	f.bodies = append(f.bodies, body)
	return nil
}

type fakeMailer struct {
	mu      sync.Mutex
	to      []string
	subject string
	fail    bool
}

func (f *fakeMailer) SendMail(_ context.Context, to []string, subject, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.to = append(f.to, to...)
	f.subject = subject
	return nil
}

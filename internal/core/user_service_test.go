package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/notifycsc/notify-csc/internal/core"
	"github.com/notifycsc/notify-csc/internal/platform/auth"
	"github.com/notifycsc/notify-csc/internal/platform/logging"
	"github.com/notifycsc/notify-csc/internal/store/memory"
)

type accountFixture struct {
	auth   core.AuthService
	users  core.UserService
	mailer *fakeMailer
}

func newAccountFixture(t *testing.T) accountFixture {
	t.Helper()
	store := memory.New()
	mailer := &fakeMailer{}
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
	return accountFixture{
		auth:   core.NewAuthService(store.Users(), hasher, auth.NewJWTIssuer("test-secret", time.Hour), fixedClock()),
		users:  core.NewUserService(store.Users(), mailer, logging.Discard(), fixedClock()),
		mailer: mailer,
	}
}

func register(t *testing.T, f accountFixture, email string) core.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), core.RegisterInput{
		Name: "Staff Member", Email: email, Password: "correct-horse",
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)

	u := register(t, f, "  Staff@NotifyCSC.in ")
	assert.Equal(t, "staff@notifycsc.in", u.Email)
	assert.Equal(t, core.RoleStaff, u.Role)
	assert.Equal(t, core.UserStatusPending, u.Status)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)

	_, err := f.auth.Register(ctx, core.RegisterInput{Name: "Dup", Email: "staff@notifycsc.in", Password: "another-pass"})
	assert.ErrorIs(t, err, core.ErrEmailTaken)
	assert.ErrorIs(t, err, core.ErrConflict)

	_, err = f.auth.Register(ctx, core.RegisterInput{Name: "Short", Email: "short@notifycsc.in", Password: "123"})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = f.auth.Register(ctx, core.RegisterInput{Name: "Bad", Email: "not-an-email", Password: "long-enough"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)
	u := register(t, f, "staff@notifycsc.in")

	_, err := f.auth.Login(ctx, core.LoginInput{Email: "staff@notifycsc.in", Password: "correct-horse"})
	require.ErrorIs(t, err, core.ErrForbidden, "pending accounts cannot sign in")

	_, err = f.auth.Login(ctx, core.LoginInput{Email: "staff@notifycsc.in", Password: "wrong"})
	require.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = f.auth.Login(ctx, core.LoginInput{Email: "nobody@notifycsc.in", Password: "correct-horse"})
	require.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = f.users.Approve(ctx, u.ID)
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, core.LoginInput{Email: "STAFF@notifycsc.in", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, core.UserStatusApproved, res.User.Status)

	p, err := f.auth.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, core.Principal{UserID: u.ID, Name: "Staff Member", Role: core.RoleStaff}, p)

	_, err = f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestApproveAndReject(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t)
	a := register(t, f, "a@notifycsc.in")
	b := register(t, f, "b@notifycsc.in")

	approved, err := f.users.Approve(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, core.UserStatusApproved, approved.Status)
	assert.Equal(t, []string{"a@notifycsc.in"}, f.mailer.to)
	assert.Contains(t, f.mailer.subject, "approved")

	_, err = f.users.Approve(ctx, a.ID)
	assert.ErrorIs(t, err, core.ErrInvalidState)
	_, err = f.users.Reject(ctx, a.ID)
	assert.ErrorIs(t, err, core.ErrInvalidState)

	rejected, err := f.users.Reject(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, core.UserStatusRejected, rejected.Status)

	_, err = f.auth.Login(ctx, core.LoginInput{Email: "b@notifycsc.in", Password: "correct-horse"})
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = f.users.Approve(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	pending, err := f.users.List(ctx, core.UserFilter{Status: core.UserStatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := f.users.List(ctx, core.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestApproveSurvivesMailFailure(t *testing.T) {
	f := newAccountFixture(t)
	f.mailer.fail = true
	u := register(t, f, "a@notifycsc.in")

	approved, err := f.users.Approve(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, core.UserStatusApproved, approved.Status)
}

func TestAuthenticateRejectsRevokedAccount(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	issuer := auth.NewJWTIssuer("test-secret", time.Hour)
	svc := core.NewAuthService(store.Users(), auth.BcryptHasher{Cost: bcrypt.MinCost}, issuer)

	require.NoError(t, store.Users().Create(ctx, core.User{
		ID: "u-1", Name: "Former", Email: "former@notifycsc.in", Role: core.RoleStaff, Status: core.UserStatusApproved,
	}))
	token, _, err := issuer.Issue(core.Principal{UserID: "u-1", Name: "Former", Role: core.RoleStaff})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, store.Users().UpdateStatus(ctx, "u-1", core.UserStatusRejected, time.Now()))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, core.ErrForbidden)

	orphan, _, err := issuer.Issue(core.Principal{UserID: "ghost", Role: core.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

package core

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/notifycsc/notify-csc/internal/platform/ids"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (User, error)
	Login(ctx context.Context, in LoginInput) (AuthResult, error)
	Authenticate(ctx context.Context, token string) (Principal, error)
}

type UserService interface {
	List(ctx context.Context, f UserFilter) ([]User, error)
	Approve(ctx context.Context, id string) (User, error)
	Reject(ctx context.Context, id string) (User, error)
}

type authService struct {
	users  UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
	clock  Clock
}

func NewAuthService(users UserRepo, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) AuthService {
	o := applyOptions(opts)
	return &authService{users: users, hasher: hasher, tokens: tokens, clock: o.clock}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock()
	u := User{
		ID:           ids.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         RoleStaff,
		Status:       UserStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrConflict) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return AuthResult{}, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if err := s.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if u.Status != UserStatusApproved {
		return AuthResult{}, ErrAccountNotApproved
	}

	token, exp, err := s.tokens.Issue(Principal{UserID: u.ID, Name: u.Name, Role: u.Role})
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate verifies the token and re-checks the account is still approved.
func (s *authService) Authenticate(ctx context.Context, token string) (Principal, error) {
	p, err := s.tokens.Verify(token)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	u, err := s.users.Get(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Principal{}, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
		}
		return Principal{}, err
	}
	if u.Status != UserStatusApproved {
		return Principal{}, ErrAccountNotApproved
	}
	return Principal{UserID: u.ID, Name: u.Name, Role: u.Role}, nil
}

type userService struct {
	users  UserRepo
	mailer Mailer
	log    *slog.Logger
	clock  Clock
}

func NewUserService(users UserRepo, mailer Mailer, log *slog.Logger, opts ...Option) UserService {
	o := applyOptions(opts)
	return &userService{users: users, mailer: mailer, log: log, clock: o.clock}
}

func (s *userService) List(ctx context.Context, f UserFilter) ([]User, error) {
	return s.users.List(ctx, f)
}

func (s *userService) Approve(ctx context.Context, id string) (User, error) {
	u, err := s.transition(ctx, id, UserStatusApproved)
	if err != nil {
		return User{}, err
	}

	body := fmt.Sprintf("<p>Hello %s,</p><p>Your Notify CSC account has been approved. You can now sign in.</p>",
		html.EscapeString(u.Name))
	if err := s.mailer.SendMail(ctx, []string{u.Email}, "Your Notify CSC account is approved", body); err != nil {
		s.log.WarnContext(ctx, "approval email failed", "user_id", u.ID, "err", err)
	}
	return u, nil
}

func (s *userService) Reject(ctx context.Context, id string) (User, error) {
	return s.transition(ctx, id, UserStatusRejected)
}

// transition moves a pending user to a final status.
func (s *userService) transition(ctx context.Context, id string, to UserStatus) (User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u.Status != UserStatusPending {
		return User{}, fmt.Errorf("%w: user is already %s", ErrInvalidState, u.Status)
	}

	now := s.clock()
	if err := s.users.UpdateStatus(ctx, id, to, now); err != nil {
		return User{}, err
	}
	u.Status = to
	u.UpdatedAt = now
	return u, nil
}

package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// User is a back-office account. Self-registered users start pending and
// can sign in only after an admin approves them.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (in RegisterInput) Validate() error {
	return validateStruct(in)
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in LoginInput) Validate() error {
	return validateStruct(in)
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

// UserFilter narrows user listings; empty fields match all.
type UserFilter struct {
	Status UserStatus
	Role   Role
}

type UserRepo interface {
	Create(ctx context.Context, u User) error
	Get(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, f UserFilter) ([]User, error)
	UpdateStatus(ctx context.Context, id string, status UserStatus, at time.Time) error
	// Names resolves display names for the given ids; unknown ids are omitted.
	Names(ctx context.Context, ids []string) (map[string]string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(p Principal) (token string, expiresAt time.Time, err error)
	Verify(token string) (Principal, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrAccountNotApproved = fmt.Errorf("%w: account is awaiting approval", ErrForbidden)
)

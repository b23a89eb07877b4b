package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Role distinguishes regular users from administrators. The role is checked
// explicitly at the entry of every privileged operation.
type Role uint8

const (
	// RoleUser can browse products and place orders.
	RoleUser Role = iota
	// RoleAdmin can additionally manage products and generate reports.
	RoleAdmin
)

// String returns the role name as stored and displayed.
func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "user"
}

// Sentinel errors for user lookup and registration.
var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Validation errors surfaced to the registration form.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// User represents a registered account. PasswordHash holds a bcrypt hash and
// is never exposed in responses.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListUsernames(ctx context.Context) ([]string, error)
}

package user

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	minPasswordLen = 8

	// Sizing for the username bloom filter. False positives only cost one
	// extra database lookup, so the rate can be generous.
	filterCapacity = 1_000_000
	filterFPR      = 0.001
)

// RegisterRequest holds the registration form input. The password is entered
// twice and both values must match.
type RegisterRequest struct {
	Username  string
	Password1 string
	Password2 string
}

// Service implements account registration and credential verification.
//
// A bloom filter of known usernames front-runs the uniqueness probe: a
// negative answer proves the username is free and skips the database lookup
// entirely. Positives (including false ones) fall through to the database.
type Service struct {
	users Repository

	mu     sync.Mutex
	filter *bloom.BloomFilter
}

// NewService creates a user Service over the given repository.
func NewService(users Repository) *Service {
	return &Service{
		users:  users,
		filter: bloom.NewWithEstimates(filterCapacity, filterFPR),
	}
}

// WarmFilter seeds the username filter from the repository. Call once at
// startup; registration still works correctly without it.
func (s *Service) WarmFilter(ctx context.Context) error {
	usernames, err := s.users.ListUsernames(ctx)
	if err != nil {
		return errors.Wrap(err, "list usernames")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range usernames {
		s.filter.AddString(name)
	}
	return nil
}

// Register validates the form input, checks username uniqueness, and persists
// a new account with a bcrypt password hash. Mismatched or too-short
// passwords create no user.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Username == "" {
		return nil, ErrUsernameRequired
	}
	if len(req.Username) < minUsernameLen {
		return nil, ErrUsernameTooShort
	}
	if len(req.Password1) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}
	if req.Password1 != req.Password2 {
		return nil, ErrPasswordMismatch
	}

	if s.mightExist(req.Username) {
		_, err := s.users.GetByUsername(ctx, req.Username)
		switch {
		case err == nil:
			return nil, ErrUsernameTaken
		case !errors.Is(err, ErrNotFound):
			return nil, errors.Wrap(err, "check username")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	u := &User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// The filter can miss usernames created since warm-up; the unique
		// constraint remains the source of truth.
		return nil, err
	}

	s.mu.Lock()
	s.filter.AddString(u.Username)
	s.mu.Unlock()

	return u, nil
}

// Authenticate verifies the username and password pair and returns the
// matching user. Lookup and comparison failures collapse into
// ErrInvalidCredentials so the response does not leak which part was wrong.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) mightExist(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.TestString(username)
}

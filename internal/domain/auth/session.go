// Package auth implements opaque session tokens backed by a relational store.
// Tokens are never persisted in plain form: the store keeps an HMAC-SHA256 of
// the token, keyed with a server-side pepper.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/stockroom/internal/domain/user"
)

// Sentinel errors for session resolution.
var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Session associates a hashed token with a user until it expires.
type Session struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Repository defines persistence operations for sessions.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByHash(ctx context.Context, hash string) (*Session, error)
	Delete(ctx context.Context, hash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Manager mints, resolves, and revokes session tokens.
type Manager struct {
	sessions Repository
	users    user.Repository
	pepper   []byte
	ttl      time.Duration
}

// NewManager creates a session Manager. The pepper keys the token HMAC; ttl
// bounds the session lifetime.
func NewManager(sessions Repository, users user.Repository, pepper []byte, ttl time.Duration) *Manager {
	return &Manager{
		sessions: sessions,
		users:    users,
		pepper:   pepper,
		ttl:      ttl,
	}
}

// Issue mints an opaque token for the given user and stores its hash.
func (m *Manager) Issue(ctx context.Context, userID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "generate token")
	}
	token := hex.EncodeToString(raw)

	s := &Session{
		TokenHash: m.hash(token),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return "", errors.Wrap(err, "store session")
	}
	return token, nil
}

// Resolve maps a presented token to its user. Expired sessions resolve to
// ErrExpired; unknown tokens to ErrNotFound.
func (m *Manager) Resolve(ctx context.Context, token string) (*user.User, error) {
	hashed := m.hash(token)

	s, err := m.sessions.FindByHash(ctx, hashed)
	if err != nil {
		return nil, err
	}

	// Compare in constant time in case the store returned a mismatched row.
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(s.TokenHash)) != 1 {
		return nil, ErrNotFound
	}

	if time.Now().After(s.ExpiresAt) {
		_ = m.sessions.Delete(ctx, hashed)
		return nil, ErrExpired
	}

	return m.users.GetByID(ctx, s.UserID)
}

// Revoke deletes the session for the presented token. Revoking an unknown
// token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	err := m.sessions.Delete(ctx, m.hash(token))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// PruneExpired removes expired session rows and returns how many were dropped.
func (m *Manager) PruneExpired(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpired(ctx)
}

func (m *Manager) hash(token string) string {
	mac := hmac.New(sha256.New, m.pepper)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

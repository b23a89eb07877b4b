package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/stockroom/internal/domain/auth"
)

const (
	createSessionSQL = `INSERT INTO sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	findSessionSQL = `SELECT token_hash, user_id, expires_at, created_at
		FROM sessions WHERE token_hash = $1`

	deleteSessionSQL = `DELETE FROM sessions WHERE token_hash = $1`

	deleteExpiredSessionsSQL = `DELETE FROM sessions WHERE expires_at < now()`
)

var _ auth.Repository = (*SessionRepository)(nil)

// SessionRepository implements auth.Repository backed by PostgreSQL.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a SessionRepository that uses the given pool.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create persists a new session.
func (r *SessionRepository) Create(ctx context.Context, s *auth.Session) error {
	err := conn(ctx, r.pool).QueryRow(ctx, createSessionSQL,
		s.TokenHash, s.UserID, s.ExpiresAt,
	).Scan(&s.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert session")
	}
	return nil
}

// FindByHash returns the session for a token hash, or auth.ErrNotFound.
func (r *SessionRepository) FindByHash(ctx context.Context, hash string) (*auth.Session, error) {
	var s auth.Session
	err := conn(ctx, r.pool).QueryRow(ctx, findSessionSQL, hash).Scan(
		&s.TokenHash, &s.UserID, &s.ExpiresAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, errors.Wrap(err, "query session")
	}
	return &s, nil
}

// Delete removes a session, or returns auth.ErrNotFound.
func (r *SessionRepository) Delete(ctx context.Context, hash string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, deleteSessionSQL, hash)
	if err != nil {
		return errors.Wrap(err, "delete session")
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns the count.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, deleteExpiredSessionsSQL)
	if err != nil {
		return 0, errors.Wrap(err, "delete expired sessions")
	}
	return tag.RowsAffected(), nil
}

package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/stockroom/internal/domain/user"
)

const (
	createUserSQL = `INSERT INTO users (id, username, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	getUserByIDSQL = `SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE id = $1`

	getUserByUsernameSQL = `SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE username = $1`

	listUsernamesSQL = `SELECT username FROM users`
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user. A username collision maps to
// user.ErrUsernameTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	err := conn(ctx, r.pool).QueryRow(ctx, createUserSQL,
		u.ID, u.Username, u.PasswordHash, u.Role == user.RoleAdmin,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrUsernameTaken
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}

// GetByID returns a user by primary key, or user.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.get(ctx, getUserByIDSQL, id)
}

// GetByUsername returns a user by username, or user.ErrNotFound.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.get(ctx, getUserByUsernameSQL, username)
}

func (r *UserRepository) get(ctx context.Context, query, arg string) (*user.User, error) {
	var (
		u       user.User
		isAdmin bool
	)
	err := conn(ctx, r.pool).QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &isAdmin, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "query user")
	}
	if isAdmin {
		u.Role = user.RoleAdmin
	}
	return &u, nil
}

// ListUsernames returns every registered username. Used to warm the
// registration bloom filter at startup.
func (r *UserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listUsernamesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query usernames")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan username")
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate usernames")
	}
	return out, nil
}

// Package postgres provides the Postgres-backed implementation of
// storage.Store on a pgx pool, selected when DATABASE_URL is set. The
// contract is identical to the SQLite backend; the cart blob lives in a
// JSONB column.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/milletcart/api/internal/cart"
	"github.com/milletcart/api/internal/storage"
)

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL,
    hashed_password TEXT NOT NULL,
    provider TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS carts (
    user_id TEXT PRIMARY KEY,
    items JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS reset_tokens (
    token UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at TIMESTAMPTZ NOT NULL
);
`

// Store implements storage.Store using Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and ensures the schema exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// --- CartStore ---

// LoadCart reads the user's cart blob. An absent row is an empty cart.
func (s *Store) LoadCart(ctx context.Context, userID string) ([]cart.Item, error) {
	var blob []byte
	err := s.pool.QueryRow(ctx,
		"SELECT items FROM carts WHERE user_id = $1", userID,
	).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []cart.Item
	if err := json.Unmarshal(blob, &items); err != nil {
		return nil, fmt.Errorf("decode cart blob: %w", err)
	}
	return items, nil
}

// SaveCart upserts the user's cart blob (last write wins).
func (s *Store) SaveCart(ctx context.Context, userID string, items []cart.Item) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart blob: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO carts (user_id, items, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at`,
		userID, blob, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// ClearCart deletes the user's cart blob.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM carts WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// --- UserStore ---

// CreateUser inserts a new account.
func (s *Store) CreateUser(ctx context.Context, user storage.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, full_name, hashed_password, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.FullName, user.HashedPassword,
		user.Provider, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, email, full_name, hashed_password, provider, created_at
		FROM users WHERE email = $1`, email))
}

// GetUserByID retrieves an account by id.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (storage.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, email, full_name, hashed_password, provider, created_at
		FROM users WHERE id = $1`, id))
}

// UpdatePassword replaces the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE users SET hashed_password = $1 WHERE id = $2", hashedPassword, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateResetToken stores a password-reset token with its expiry.
func (s *Store) CreateResetToken(ctx context.Context, token, userID uuid.UUID, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reset_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken validates and deletes the token, returning the owning
// user. Expired or unknown tokens return ErrTokenInvalid.
func (s *Store) ConsumeResetToken(ctx context.Context, token uuid.UUID) (uuid.UUID, error) {
	var userID uuid.UUID
	var expiresAt time.Time
	err := s.pool.QueryRow(ctx, `
		DELETE FROM reset_tokens WHERE token = $1
		RETURNING user_id, expires_at`, token,
	).Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, storage.ErrTokenInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("consume reset token: %w", err)
	}
	if time.Now().After(expiresAt) {
		return uuid.Nil, storage.ErrTokenInvalid
	}
	return userID, nil
}

func (s *Store) scanUser(row pgx.Row) (storage.User, error) {
	var u storage.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Provider, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.User{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// isUniqueViolation checks for a Postgres unique constraint violation
// (pgconn error code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

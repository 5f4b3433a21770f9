// Package sqlite provides the embedded SQLite-backed implementation of
// storage.Store. It is the default backend: a local file, no server, the
// same role the device key-value store played for the mobile client.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/milletcart/api/internal/cart"
	"github.com/milletcart/api/internal/storage"
)

// Ensure Store implements storage.Store.
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store at the given database path, creating parent
// directories and running migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- CartStore ---

// LoadCart reads the user's cart blob. An absent row is an empty cart.
func (s *Store) LoadCart(ctx context.Context, userID string) ([]cart.Item, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		"SELECT items FROM carts WHERE user_id = ?", userID,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []cart.Item
	if err := json.Unmarshal([]byte(blob), &items); err != nil {
		return nil, fmt.Errorf("decode cart blob: %w", err)
	}
	return items, nil
}

// SaveCart writes the user's cart blob, replacing any previous snapshot
// (last write wins; there is one writer per user).
func (s *Store) SaveCart(ctx context.Context, userID string, items []cart.Item) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart blob: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, items, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET items = excluded.items, updated_at = excluded.updated_at`,
		userID, string(blob), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// ClearCart deletes the user's cart blob. Clearing an absent cart is fine.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM carts WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// --- UserStore ---

// CreateUser inserts a new account.
func (s *Store) CreateUser(ctx context.Context, user storage.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, hashed_password, provider, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID.String(), user.Email, user.FullName, user.HashedPassword,
		user.Provider, user.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, hashed_password, provider, created_at
		FROM users WHERE email = ?`, email))
}

// GetUserByID retrieves an account by id.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (storage.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, hashed_password, provider, created_at
		FROM users WHERE id = ?`, id.String()))
}

// UpdatePassword replaces the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET hashed_password = ? WHERE id = ?", hashedPassword, id.String())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateResetToken stores a password-reset token with its expiry.
func (s *Store) CreateResetToken(ctx context.Context, token, userID uuid.UUID, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reset_tokens (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token.String(), userID.String(), expiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken validates and deletes the token, returning the owning
// user. Expired or unknown tokens return ErrTokenInvalid; a token can be
// used once.
func (s *Store) ConsumeResetToken(ctx context.Context, token uuid.UUID) (uuid.UUID, error) {
	var userIDStr string
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, expires_at FROM reset_tokens WHERE token = ?", token.String(),
	).Scan(&userIDStr, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, storage.ErrTokenInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup reset token: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM reset_tokens WHERE token = ?", token.String()); err != nil {
		return uuid.Nil, fmt.Errorf("consume reset token: %w", err)
	}

	if time.Now().Unix() > expiresAt {
		return uuid.Nil, storage.ErrTokenInvalid
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token user id: %w", err)
	}
	return userID, nil
}

func (s *Store) scanUser(row *sql.Row) (storage.User, error) {
	var u storage.User
	var idStr string
	var createdAt int64
	err := row.Scan(&idStr, &u.Email, &u.FullName, &u.HashedPassword, &u.Provider, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.User{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.ID, err = uuid.Parse(idStr)
	if err != nil {
		return storage.User{}, fmt.Errorf("parse user id: %w", err)
	}
	u.CreatedAt = time.Unix(createdAt, 0)
	return u, nil
}

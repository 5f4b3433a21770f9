// Package storage defines the persistence contract shared by the SQLite and
// Postgres backends: the per-user cart blob plus the user accounts the auth
// endpoints operate on.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/milletcart/api/internal/cart"
)

// Errors returned by storage backends.
var (
	ErrNotFound     = errors.New("record not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrTokenInvalid = errors.New("reset token invalid or expired")
)

// User is a registered account.
type User struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	HashedPassword string
	Provider       string // empty for password accounts
	CreatedAt      time.Time
}

// CartStore persists one JSON cart blob per user. An absent row is an empty
// cart, not an error, and the round-trip is lossless.
type CartStore interface {
	LoadCart(ctx context.Context, userID string) ([]cart.Item, error)
	SaveCart(ctx context.Context, userID string, items []cart.Item) error
	ClearCart(ctx context.Context, userID string) error
}

// UserStore persists accounts and password-reset tokens.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	CreateResetToken(ctx context.Context, token uuid.UUID, userID uuid.UUID, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token uuid.UUID) (uuid.UUID, error)
}

// Store is the full backend contract, satisfied by both sqlite.Store and
// postgres.Store.
type Store interface {
	CartStore
	UserStore
	Close() error
}

// cartRepository binds a CartStore to one user's blob, satisfying
// cart.Repository.
type cartRepository struct {
	store  CartStore
	userID string
}

// NewCartRepository returns a cart.Repository scoped to the given user.
func NewCartRepository(store CartStore, userID string) cart.Repository {
	return &cartRepository{store: store, userID: userID}
}

func (r *cartRepository) Load(ctx context.Context) ([]cart.Item, error) {
	return r.store.LoadCart(ctx, r.userID)
}

func (r *cartRepository) Save(ctx context.Context, items []cart.Item) error {
	return r.store.SaveCart(ctx, r.userID, items)
}

func (r *cartRepository) Clear(ctx context.Context) error {
	return r.store.ClearCart(ctx, r.userID)
}

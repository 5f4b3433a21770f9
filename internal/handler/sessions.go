package handler

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/milletcart/api/internal/cart"
	"github.com/milletcart/api/internal/storage"
)

// CartSessions hands out one shared cart service per user. Every screen-level
// endpoint (catalog add, cart view, checkout) reads the same instance, so
// cart state is never mirrored through request parameters. The persisted
// blob is restored the first time a user's session is touched.
type CartSessions struct {
	mu       sync.Mutex
	store    storage.CartStore
	sessions map[uuid.UUID]*cartSession
}

// cartSession pairs the service with a once guarding the initial restore, so
// concurrent first requests cannot mutate the cart before Load replaces it.
type cartSession struct {
	svc  *cart.Service
	load sync.Once
}

// NewCartSessions creates a session registry over the given cart store.
func NewCartSessions(store storage.CartStore) *CartSessions {
	return &CartSessions{
		store:    store,
		sessions: make(map[uuid.UUID]*cartSession),
	}
}

// ForUser returns the user's cart service, creating and loading it on first
// access. Callers racing on the first access all wait for the restore.
func (cs *CartSessions) ForUser(ctx context.Context, userID uuid.UUID) *cart.Service {
	cs.mu.Lock()
	sess, ok := cs.sessions[userID]
	if !ok {
		repo := storage.NewCartRepository(cs.store, userID.String())
		sess = &cartSession{svc: cart.NewService(repo)}
		cs.sessions[userID] = sess
	}
	cs.mu.Unlock()

	sess.load.Do(func() { sess.svc.Load(ctx) })
	return sess.svc
}

// Package cart implements the in-memory cart store: merge-on-add, quantity
// adjustment, removal, search, and best-effort persistence through a
// Repository. One Service instance owns one user's cart.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Errors returned by the cart service.
var (
	ErrInvalidItem = errors.New("invalid line item")
	ErrNotFound    = errors.New("cart entry not found")
)

// Repository persists the cart blob. Implementations live in
// internal/storage; failures are reported but never roll back the in-memory
// mutation (best-effort durability).
type Repository interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
	Clear(ctx context.Context) error
}

// Service is the cart store for a single session. All mutations hold the
// mutex, so concurrent HTTP handlers observe a consistent cart; the
// persisted blob has a single writer per user.
type Service struct {
	mu    sync.Mutex
	items []Item
	repo  Repository
}

// NewService creates an empty cart backed by repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Load restores the cart from the repository. A missing or corrupt blob
// falls back to an empty cart and logs the condition; the session never
// fails to start over storage.
func (s *Service) Load(ctx context.Context) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		slog.Warn("cart load failed, starting empty", "error", err)
		items = nil
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// Add merges the item into the cart: an existing entry with the same ID has
// its quantity incremented by qty, otherwise a new entry is appended with
// quantity qty. Returns the resulting entry and whether it was newly
// created. A qty of 0 defaults to 1; negative quantities are invalid.
func (s *Service) Add(ctx context.Context, item Item, qty int32) (Item, bool, error) {
	if qty < 0 {
		return Item{}, false, fmt.Errorf("%w: quantity must not be negative", ErrInvalidItem)
	}
	if qty == 0 {
		qty = 1
	}
	item.Quantity = qty
	if err := validate.Struct(item); err != nil {
		return Item{}, false, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += qty
			merged := s.items[i]
			s.persistLocked(ctx)
			return merged, false, nil
		}
	}
	s.items = append(s.items, item)
	s.persistLocked(ctx)
	return item, true, nil
}

// Increment raises the quantity of the entry by one.
func (s *Service) Increment(ctx context.Context, id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity++
			it := s.items[i]
			s.persistLocked(ctx)
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Decrement lowers the quantity of the entry by one. Reaching zero removes
// the entry entirely; a quantity-zero entry is never kept.
func (s *Service) Decrement(ctx context.Context, id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Quantity <= 1 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return Item{}, nil
		}
		s.items[i].Quantity--
		it := s.items[i]
		s.persistLocked(ctx)
		return it, nil
	}
	return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Remove deletes the entry. Removing an absent ID is a no-op, so the call
// is idempotent.
func (s *Service) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// Clear empties the cart and the persisted blob. Used after a confirmed
// checkout and by the explicit clear endpoint.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.repo.Clear(ctx); err != nil {
		slog.Error("cart clear failed", "error", err)
	}
}

// Items returns a snapshot copy of the cart, in insertion order. Later
// mutations of the live cart do not affect the returned slice.
func (s *Service) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Search returns the entries whose name or description contains the query,
// case-insensitively. An empty query returns the full snapshot. The view is
// derived; the underlying cart is not touched.
func (s *Service) Search(query string) []Item {
	items := s.Items()
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	var out []Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Description), q) {
			out = append(out, it)
		}
	}
	return out
}

// persistLocked writes the current cart through the repository. Persistence
// failure is logged and swallowed: the in-memory mutation stands.
// Caller must hold s.mu.
func (s *Service) persistLocked(ctx context.Context) {
	snapshot := make([]Item, len(s.items))
	copy(snapshot, s.items)
	if err := s.repo.Save(ctx, snapshot); err != nil {
		slog.Error("cart persist failed", "error", err, "items", len(snapshot))
	}
}

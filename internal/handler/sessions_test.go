package handler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/milletcart/api/internal/cart"
	"github.com/milletcart/api/internal/handler"
	"github.com/shopspring/decimal"
)

// slowLoadStore delays LoadCart so concurrent first accesses overlap the
// restore window.
type slowLoadStore struct {
	*mockCartStore
	delay time.Duration
}

func (s *slowLoadStore) LoadCart(ctx context.Context, userID string) ([]cart.Item, error) {
	time.Sleep(s.delay)
	return s.mockCartStore.LoadCart(ctx, userID)
}

func TestCartSessions_SameInstancePerUser(t *testing.T) {
	sessions := handler.NewCartSessions(newMockCartStore())
	ctx := context.Background()
	userID := uuid.New()

	a := sessions.ForUser(ctx, userID)
	b := sessions.ForUser(ctx, userID)
	if a != b {
		t.Error("same user must get the same cart service")
	}

	if other := sessions.ForUser(ctx, uuid.New()); other == a {
		t.Error("different users must get different cart services")
	}
}

func TestCartSessions_ConcurrentFirstAccessKeepsMutations(t *testing.T) {
	store := newMockCartStore()
	userID := uuid.New()
	ctx := context.Background()

	restored := []cart.Item{
		{ID: "restored", Name: "Organic Millet", UnitPrice: decimal.NewFromInt(299), Quantity: 1},
	}
	if err := store.SaveCart(ctx, userID.String(), restored); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	sessions := handler.NewCartSessions(&slowLoadStore{mockCartStore: store, delay: 10 * time.Millisecond})

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			svc := sessions.ForUser(ctx, userID)
			item := cart.Item{
				ID:        string(rune('a' + n)),
				Name:      "concurrent add",
				UnitPrice: decimal.NewFromInt(10),
			}
			if _, _, err := svc.Add(ctx, item, 1); err != nil {
				t.Errorf("add: %v", err)
			}
		}(i)
	}
	wg.Wait()

	items := sessions.ForUser(ctx, userID).Items()
	if len(items) != writers+1 {
		t.Fatalf("entries: got %d, want %d (restore must not overwrite concurrent adds)", len(items), writers+1)
	}

	found := false
	for _, it := range items {
		if it.ID == "restored" {
			found = true
		}
	}
	if !found {
		t.Error("restored entry missing after concurrent first access")
	}
}

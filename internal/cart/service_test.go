package cart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/milletcart/api/internal/cart"
	"github.com/shopspring/decimal"
)

// --- Mock repository ---

// mockRepo implements cart.Repository with configurable behavior.
type mockRepo struct {
	items   []cart.Item
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func (m *mockRepo) Load(ctx context.Context) ([]cart.Item, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.items, nil
}

func (m *mockRepo) Save(ctx context.Context, items []cart.Item) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = items
	return nil
}

func (m *mockRepo) Clear(ctx context.Context) error {
	m.clears++
	m.items = nil
	return nil
}

// --- Helpers ---

func testItem(id string, price int64) cart.Item {
	return cart.Item{
		ID:          id,
		Name:        "item " + id,
		Description: "description of item " + id,
		UnitPrice:   decimal.NewFromInt(price),
		ImageRef:    "item.jpg",
	}
}

func quantities(items []cart.Item) map[string]int32 {
	out := make(map[string]int32, len(items))
	for _, it := range items {
		out[it.ID] = it.Quantity
	}
	return out
}

// --- Add ---

func TestAdd_NewItem(t *testing.T) {
	repo := &mockRepo{}
	svc := cart.NewService(repo)
	ctx := context.Background()

	merged, created, err := svc.Add(ctx, testItem("1", 100), 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !created {
		t.Error("expected created=true for a new entry")
	}
	if merged.Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", merged.Quantity)
	}
	if repo.saves != 1 {
		t.Errorf("saves: got %d, want 1", repo.saves)
	}
}

func TestAdd_SameIDMerges(t *testing.T) {
	svc := cart.NewService(&mockRepo{})
	ctx := context.Background()

	if _, _, err := svc.Add(ctx, testItem("1", 100), 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	merged, created, err := svc.Add(ctx, testItem("1", 100), 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if created {
		t.Error("expected created=false when merging")
	}
	if merged.Quantity != 5 {
		t.Errorf("merged quantity: got %d, want 5", merged.Quantity)
	}
	items := svc.Items()
	if len(items) != 1 {
		t.Fatalf("entries: got %d, want 1 (same id must merge, never duplicate)", len(items))
	}
}

func TestAdd_DefaultQuantityIsOne(t *testing.T) {
	svc := cart.NewService(&mockRepo{})

	merged, _, err := svc.Add(context.Background(), testItem("1", 100), 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if merged.Quantity != 1 {
		t.Errorf("quantity: got %d, want 1", merged.Quantity)
	}
}

func TestAdd_InvalidItems(t *testing.T) {
	svc := cart.NewService(&mockRepo{})
	ctx := context.Background()

	tests := []struct {
		name string
		item cart.Item
		qty  int32
	}{
		{"missing id", cart.Item{Name: "x", UnitPrice: decimal.NewFromInt(10)}, 1},
		{"missing name", cart.Item{ID: "1", UnitPrice: decimal.NewFromInt(10)}, 1},
		{"negative price", cart.Item{ID: "1", Name: "x", UnitPrice: decimal.NewFromInt(-5)}, 1},
		{"negative quantity", testItem("1", 100), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Add(ctx, tt.item, tt.qty)
			if !errors.Is(err, cart.ErrInvalidItem) {
				t.Errorf("expected ErrInvalidItem, got %v", err)
			}
		})
	}

	if len(svc.Items()) != 0 {
		t.Error("invalid adds must not mutate the cart")
	}
}

// --- Increment / Decrement ---

func TestIncrement(t *testing.T) {
	svc := cart.NewService(&mockRepo{})
	ctx := context.Background()
	svc.Add(ctx, testItem("1", 100), 1)

	it, err := svc.Increment(ctx, "1")
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if it.Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", it.Quantity)
	}
}

func TestIncrement_AbsentID(t *testing.T) {
	svc := cart.NewService(&mockRepo{})

	_, err := svc.Increment(context.Background(), "ghost")
	if !errors.Is(err, cart.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDecrement_ToZeroRemovesEntry(t *testing.T) {
	svc := cart.NewService(&mockRepo{})
	ctx := context.Background()
	svc.Add(ctx, testItem("1", 100), 1)

	if _, err := svc.Decrement(ctx, "1"); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	for _, it := range svc.Items() {
		if it.ID == "1" {
			t.Fatalf("entry 1 still present with quantity %d; decrement to zero must remove it", it.Quantity)
		}
	}
}

func TestDecrement_AboveOne(t *testing.T) {
	svc := cart.NewService(&mockRepo{})
	ctx := context.Background()
	svc.Add(ctx, testItem("1", 100), 3)

	it, err := svc.Decrement(ctx, "1")
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if it.Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", it.Quantity)
	}
}

// --- Remove ---

func TestRemove_Idempotent(t *testing.T) {
	repo := &mockRepo{}
	svc := cart.NewService(repo)
	ctx := context.Background()
	svc.Add(ctx, testItem("1", 100), 1)
	svc.Add(ctx, testItem("2", 200), 1)

	svc.Remove(ctx, "1")
	after := quantities(svc.Items())

	svc.Remove(ctx, "1") // second remove is a no-op

	if len(svc.Items()) != len(after) {
		t.Error("second remove changed the cart")
	}
	if _, ok := after["1"]; ok {
		t.Error("entry 1 still present after remove")
	}
	if _, ok := after["2"]; !ok {
		t.Error("entry 2 should survive removal of entry 1")
	}
}

// --- Persistence behavior ---

func TestAdd_PersistFailureKeepsMutation(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("disk full")}
	svc := cart.NewService(repo)

	_, _, err := svc.Add(context.Background(), testItem("1", 100), 1)
	if err != nil {
		t.Fatalf("add must not fail on persist error, got %v", err)
	}
	if len(svc.Items()) != 1 {
		t.Error("in-memory mutation must survive a failed persist")
	}
}

func TestLoad_RestoresPersistedCart(t *testing.T) {
	repo := &mockRepo{items: []cart.Item{
		{ID: "1", Name: "a", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
	}}
	svc := cart.NewService(repo)

	svc.Load(context.Background())

	items := svc.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Errorf("restored cart: got %+v", items)
	}
}

func TestLoad_FailureFallsBackToEmpty(t *testing.T) {
	repo := &mockRepo{loadErr: errors.New("corrupt blob")}
	svc := cart.NewService(repo)

	svc.Load(context.Background())

	if len(svc.Items()) != 0 {
		t.Error("load failure must fall back to an empty cart")
	}
}

func TestClear(t *testing.T) {
	repo := &mockRepo{}
	svc := cart.NewService(repo)
	ctx := context.Background()
	svc.Add(ctx, testItem("1", 100), 1)

	svc.Clear(ctx)

	if len(svc.Items()) != 0 {
		t.Error("cart not empty after clear")
	}
	if repo.clears != 1 {
		t.Errorf("repository clears: got %d, want 1", repo.clears)
	}
}

// --- Search ---

func TestSearch(t *testing.T) {
	svc := cart.NewService(&mockRepo{})
	ctx := context.Background()
	svc.Add(ctx, cart.Item{ID: "1", Name: "Organic Millet", Description: "healthy millet bowl", UnitPrice: decimal.NewFromInt(299)}, 1)
	svc.Add(ctx, cart.Item{ID: "2", Name: "Pancakes", Description: "with maple syrup", UnitPrice: decimal.NewFromInt(199)}, 1)

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got := svc.Search("MILLET")
		if len(got) != 1 || got[0].ID != "1" {
			t.Errorf("search MILLET: got %+v", got)
		}
	})

	t.Run("matches description", func(t *testing.T) {
		got := svc.Search("maple")
		if len(got) != 1 || got[0].ID != "2" {
			t.Errorf("search maple: got %+v", got)
		}
	})

	t.Run("empty query returns everything", func(t *testing.T) {
		if got := svc.Search(""); len(got) != 2 {
			t.Errorf("search empty: got %d items, want 2", len(got))
		}
	})

	t.Run("does not mutate the cart", func(t *testing.T) {
		svc.Search("millet")
		if len(svc.Items()) != 2 {
			t.Error("search changed the underlying cart")
		}
	})
}

// --- Snapshot semantics ---

func TestItems_SnapshotIsImmuneToLaterMutations(t *testing.T) {
	svc := cart.NewService(&mockRepo{})
	ctx := context.Background()
	svc.Add(ctx, testItem("1", 100), 1)

	snapshot := svc.Items()
	svc.Increment(ctx, "1")

	if snapshot[0].Quantity != 1 {
		t.Errorf("snapshot mutated: got quantity %d, want 1", snapshot[0].Quantity)
	}
}

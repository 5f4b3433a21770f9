package pricing_test

import (
	"testing"

	"github.com/milletcart/api/internal/cart"
	"github.com/milletcart/api/internal/pricing"
	"github.com/shopspring/decimal"
)

func item(id string, price int64, qty int32) cart.Item {
	return cart.Item{
		ID:        id,
		Name:      "item " + id,
		UnitPrice: decimal.NewFromInt(price),
		Quantity:  qty,
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSubtotal_EmptyCart(t *testing.T) {
	if got := pricing.Subtotal(nil); !got.IsZero() {
		t.Errorf("subtotal of empty cart: got %s, want 0", got)
	}
}

func TestCompute_TypicalCart(t *testing.T) {
	// {100 x2, 250 x1} -> subtotal 450, fee 40 (450 <= 500), tax 22.5, total 512.5
	items := []cart.Item{
		item("1", 100, 2),
		item("2", 250, 1),
	}

	b := pricing.Compute(items)

	if !b.Subtotal.Equal(dec("450")) {
		t.Errorf("subtotal: got %s, want 450", b.Subtotal)
	}
	if !b.DeliveryFee.Equal(dec("40")) {
		t.Errorf("delivery fee: got %s, want 40", b.DeliveryFee)
	}
	if !b.Tax.Equal(dec("22.5")) {
		t.Errorf("tax: got %s, want 22.5", b.Tax)
	}
	if !b.Total.Equal(dec("512.5")) {
		t.Errorf("total: got %s, want 512.5", b.Total)
	}
}

func TestDeliveryFee_Boundary(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		want     string
	}{
		{"exactly at threshold pays the fee", "500", "40"},
		{"just above threshold is free", "500.01", "0"},
		{"below threshold pays the fee", "499.99", "40"},
		{"zero subtotal pays the fee", "0", "40"},
		{"well above threshold is free", "1000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.DeliveryFee(dec(tt.subtotal))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("delivery fee for %s: got %s, want %s", tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestTax_NotRounded(t *testing.T) {
	// 0.05 * 99.99 = 4.9995; full precision must be kept internally.
	got := pricing.Tax(dec("99.99"))
	if !got.Equal(dec("4.9995")) {
		t.Errorf("tax: got %s, want 4.9995", got)
	}
}

func TestTotal_InvariantHolds(t *testing.T) {
	carts := [][]cart.Item{
		nil,
		{item("1", 100, 2)},
		{item("1", 100, 2), item("2", 250, 1)},
		{item("1", 501, 1)},
		{item("1", 125, 4)}, // exactly 500
		{item("1", 3, 7), item("2", 19, 13), item("3", 999, 2)},
	}

	for _, items := range carts {
		b := pricing.Compute(items)
		sum := b.Subtotal.Add(b.DeliveryFee).Add(b.Tax)
		if !b.Total.Equal(sum) {
			t.Errorf("items %v: total %s != subtotal+fee+tax %s", items, b.Total, sum)
		}
		if b.Total.IsNegative() || b.Subtotal.IsNegative() || b.Tax.IsNegative() {
			t.Errorf("items %v: negative component in %+v", items, b)
		}
	}
}

func TestCompute_FreeDeliveryAboveThreshold(t *testing.T) {
	// 501 -> no fee, tax 25.05, total 526.05
	b := pricing.Compute([]cart.Item{item("1", 501, 1)})

	if !b.DeliveryFee.IsZero() {
		t.Errorf("delivery fee: got %s, want 0", b.DeliveryFee)
	}
	if !b.Total.Equal(dec("526.05")) {
		t.Errorf("total: got %s, want 526.05", b.Total)
	}
}

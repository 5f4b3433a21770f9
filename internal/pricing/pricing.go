// Package pricing computes the order price breakdown from cart line items.
// All functions are pure; money stays full-precision decimal until the HTTP
// boundary renders it with two decimal places.
package pricing

import (
	"github.com/milletcart/api/internal/cart"
	"github.com/shopspring/decimal"
)

var (
	// FreeDeliveryThreshold is the subtotal above which delivery is free.
	// A subtotal of exactly 500 still pays the fee (strict greater-than).
	FreeDeliveryThreshold = decimal.NewFromInt(500)

	// FlatDeliveryFee is charged on orders at or below the threshold.
	FlatDeliveryFee = decimal.NewFromInt(40)

	// TaxRate is the flat 5% tax applied to the subtotal.
	TaxRate = decimal.NewFromFloat(0.05)
)

// Breakdown is the derived price summary of a cart snapshot. It is computed
// on every read and never stored; Total always equals
// Subtotal + DeliveryFee + Tax.
type Breakdown struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// Subtotal sums unit price times quantity over all line items.
func Subtotal(items []cart.Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	return sum
}

// DeliveryFee returns the flat fee, waived when the subtotal exceeds the
// free-delivery threshold.
func DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return FlatDeliveryFee
}

// Tax returns the flat-rate tax on the subtotal, unrounded.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

// Total computes subtotal + delivery fee + tax for the given items.
func Total(items []cart.Item) decimal.Decimal {
	return Compute(items).Total
}

// Compute derives the full breakdown for a cart snapshot.
func Compute(items []cart.Item) Breakdown {
	sub := Subtotal(items)
	fee := DeliveryFee(sub)
	tax := Tax(sub)
	return Breakdown{
		Subtotal:    sub,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       sub.Add(fee).Add(tax),
	}
}

// Package checkout drives a single checkout attempt from review through
// payment selection to confirmation. Each Checkout owns a frozen snapshot of
// the cart and its price breakdown taken at construction time; later cart
// mutations elsewhere never change this attempt's numbers.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/milletcart/api/internal/cart"
	"github.com/milletcart/api/internal/enum"
	"github.com/milletcart/api/internal/pricing"
	"github.com/shopspring/decimal"
)

// Errors returned by the checkout state machine.
var (
	ErrUnknownMethod    = errors.New("unknown payment method")
	ErrMethodDisabled   = errors.New("payment method not yet available")
	ErrEmptyCart        = errors.New("cannot place an order with no items")
	ErrNoPaymentMethod  = errors.New("no payment method selected")
	ErrAlreadyConfirmed = errors.New("checkout already confirmed")

	// ErrCheckoutBlocked wraps the reason confirmation was refused. The
	// machine stays usable: fixing the payment selection and confirming
	// again can still succeed.
	ErrCheckoutBlocked = errors.New("checkout blocked")
)

// CartClearer clears the live cart and its persisted blob after a confirmed
// order. Satisfied by *cart.Service.
type CartClearer interface {
	Clear(ctx context.Context)
}

// Order is the record synthesized on confirmation. Immutable once created;
// there is no durable order history, it exists for the confirmation view.
type Order struct {
	OrderID       string          `json:"order_id"`
	PlacedAt      time.Time       `json:"placed_at"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
}

// Checkout is one checkout attempt over a frozen cart snapshot.
type Checkout struct {
	mu       sync.Mutex
	items    []cart.Item
	prices   pricing.Breakdown
	state    string
	selected string
	order    *Order
	clearer  CartClearer
}

// New freezes the given cart snapshot and starts the machine in REVIEW.
func New(items []cart.Item, clearer CartClearer) *Checkout {
	frozen := make([]cart.Item, len(items))
	copy(frozen, items)
	return &Checkout{
		items:   frozen,
		prices:  pricing.Compute(frozen),
		state:   enum.CheckoutStateReview,
		clearer: clearer,
	}
}

// Items returns the frozen snapshot.
func (c *Checkout) Items() []cart.Item {
	out := make([]cart.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Prices returns the breakdown computed when checkout was entered.
func (c *Checkout) Prices() pricing.Breakdown { return c.prices }

// State reports the current machine state.
func (c *Checkout) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectedMethod reports the currently selected payment method, empty when
// none has been chosen yet.
func (c *Checkout) SelectedMethod() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Order returns the confirmed order, or nil before confirmation.
func (c *Checkout) Order() *Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

// SelectPayment chooses a payment method. Exactly one method may be selected
// at a time. Selecting a disabled method leaves the previous selection and
// the machine state untouched.
func (c *Checkout) SelectPayment(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == enum.CheckoutStateConfirmed {
		return ErrAlreadyConfirmed
	}
	switch method {
	case enum.PaymentMethodCash:
	case enum.PaymentMethodOnline, enum.PaymentMethodNetBanking, enum.PaymentMethodQRCode:
		return fmt.Errorf("%w: %s", ErrMethodDisabled, method)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	c.selected = method
	c.state = enum.CheckoutStatePaymentSelection
	return nil
}

// Confirm places the order. It requires cash-on-delivery to be selected and
// a non-empty snapshot; otherwise the machine moves to BLOCKED and no order
// is created and no storage is cleared. On success it synthesizes the Order
// with the frozen total, clears the cart, and reaches the terminal
// CONFIRMED state.
func (c *Checkout) Confirm(ctx context.Context) (*Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == enum.CheckoutStateConfirmed {
		return nil, ErrAlreadyConfirmed
	}
	if len(c.items) == 0 {
		c.state = enum.CheckoutStateBlocked
		return nil, fmt.Errorf("%w: %w", ErrCheckoutBlocked, ErrEmptyCart)
	}
	if c.selected == "" {
		c.state = enum.CheckoutStateBlocked
		return nil, fmt.Errorf("%w: %w", ErrCheckoutBlocked, ErrNoPaymentMethod)
	}
	if c.selected != enum.PaymentMethodCash {
		c.state = enum.CheckoutStateBlocked
		return nil, fmt.Errorf("%w: only cash on delivery is currently available", ErrCheckoutBlocked)
	}

	now := time.Now()
	c.order = &Order{
		OrderID:       newOrderID(now),
		PlacedAt:      now,
		PaymentMethod: c.selected,
		Total:         c.prices.Total,
	}
	c.state = enum.CheckoutStateConfirmed

	if c.clearer != nil {
		c.clearer.Clear(ctx)
	}
	return c.order, nil
}

// newOrderID derives an order id from a random component plus the current
// time, which keeps ids unique enough for a simulated placement flow.
func newOrderID(now time.Time) string {
	ms := now.UnixMilli()
	return fmt.Sprintf("ORD%06d%04d", rand.IntN(1_000_000), ms%10_000)
}

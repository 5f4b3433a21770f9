package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/milletcart/api/internal/checkout"
	"github.com/milletcart/api/internal/metrics"
	"github.com/milletcart/api/internal/middleware"
	"github.com/milletcart/api/internal/ws"
)

// CheckoutHandler drives checkout attempts. Each POST /checkout freezes the
// caller's cart into a new state-machine instance; a confirmed instance is
// terminal and a fresh checkout starts over from the (now empty) cart.
type CheckoutHandler struct {
	sessions *CartSessions
	hub      *ws.Hub

	mu       sync.Mutex
	attempts map[uuid.UUID]*attempt
}

type attempt struct {
	userID   uuid.UUID
	checkout *checkout.Checkout
}

// NewCheckoutHandler creates a new CheckoutHandler. hub may be nil when no
// live feed is wired (tests).
func NewCheckoutHandler(sessions *CartSessions, hub *ws.Hub) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		hub:      hub,
		attempts: make(map[uuid.UUID]*attempt),
	}
}

// RegisterRoutes registers checkout endpoints on the given Chi router.
// Expected to be mounted inside the authenticated group at /checkout.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/payment", h.SelectPayment)
	r.Post("/{id}/confirm", h.Confirm)
}

// --- Request / Response types ---

type selectPaymentRequest struct {
	Method string `json:"method"`
}

type checkoutResponse struct {
	CheckoutID    string       `json:"checkout_id"`
	State         string       `json:"state"`
	PaymentMethod string       `json:"payment_method,omitempty"`
	Cart          cartResponse `json:"cart"`
}

type orderResponse struct {
	OrderID       string `json:"order_id"`
	PlacedAt      string `json:"placed_at"`
	PaymentMethod string `json:"payment_method"`
	Total         string `json:"total"`
}

func (h *CheckoutHandler) toCheckoutResponse(id uuid.UUID, c *checkout.Checkout) checkoutResponse {
	return checkoutResponse{
		CheckoutID:    id.String(),
		State:         c.State(),
		PaymentMethod: c.SelectedMethod(),
		Cart:          toCartResponse(c.Items(), c.Prices()),
	}
}

func toOrderResponse(o *checkout.Order) orderResponse {
	return orderResponse{
		OrderID:       o.OrderID,
		PlacedAt:      o.PlacedAt.Format(time.RFC3339),
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total.StringFixed(2),
	}
}

// --- Handlers ---

// Create snapshots the caller's cart into a new checkout attempt. The
// snapshot and its breakdown are frozen: cart changes made elsewhere no
// longer affect this attempt's numbers.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.ClaimsFromContext(r.Context()).UserID
	svc := h.sessions.ForUser(r.Context(), userID)

	c := checkout.New(svc.Items(), svc)
	id := uuid.New()

	h.mu.Lock()
	h.attempts[id] = &attempt{userID: userID, checkout: c}
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, h.toCheckoutResponse(id, c))
}

// Get returns the state of a checkout attempt.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.toCheckoutResponse(id, c))
}

// SelectPayment chooses the payment method for the attempt. Disabled
// methods are refused without changing the current selection.
func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req selectPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := c.SelectPayment(req.Method); err != nil {
		switch {
		case errors.Is(err, checkout.ErrMethodDisabled):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "only cash on delivery is currently available"})
		case errors.Is(err, checkout.ErrAlreadyConfirmed):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "checkout already confirmed"})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown payment method"})
		}
		return
	}

	writeJSON(w, http.StatusOK, h.toCheckoutResponse(id, c))
}

// Confirm places the order. A refused confirmation leaves the machine in
// BLOCKED with an actionable message; success returns the order built from
// the frozen total and pushes it to the caller's live feed.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	_, c, ok := h.lookup(w, r)
	if !ok {
		return
	}
	userID := middleware.ClaimsFromContext(r.Context()).UserID

	order, err := c.Confirm(r.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrAlreadyConfirmed) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "checkout already confirmed"})
			return
		}
		if errors.Is(err, checkout.ErrCheckoutBlocked) {
			metrics.CheckoutsBlocked.Inc()
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("checkout confirm failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	metrics.OrdersConfirmed.Inc()
	h.notify(userID, order)

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// --- Helpers ---

// lookup resolves the attempt in the URL and checks it belongs to the
// caller. Writes the error response itself when the attempt is unusable.
func (h *CheckoutHandler) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, *checkout.Checkout, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid checkout ID"})
		return uuid.Nil, nil, false
	}

	h.mu.Lock()
	a := h.attempts[id]
	h.mu.Unlock()

	if a == nil || a.userID != middleware.ClaimsFromContext(r.Context()).UserID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "checkout not found"})
		return uuid.Nil, nil, false
	}
	return id, a.checkout, true
}

func (h *CheckoutHandler) notify(userID uuid.UUID, order *checkout.Order) {
	if h.hub == nil {
		return
	}
	payload, err := json.Marshal(toOrderResponse(order))
	if err != nil {
		slog.Error("encode order event failed", "error", err)
		return
	}
	h.hub.BroadcastToUser(userID, ws.Event{Type: "order_confirmed", Payload: payload})
}

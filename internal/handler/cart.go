package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/milletcart/api/internal/cart"
	"github.com/milletcart/api/internal/metrics"
	"github.com/milletcart/api/internal/middleware"
	"github.com/milletcart/api/internal/pricing"
	"github.com/shopspring/decimal"
)

// CartHandler exposes the caller's cart: merge-on-add, quantity adjustment,
// removal, search, and the derived price breakdown.
type CartHandler struct {
	sessions *CartSessions
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(sessions *CartSessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted inside the authenticated group at /cart.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Post("/items/{id}/increment", h.Increment)
	r.Post("/items/{id}/decrement", h.Decrement)
	r.Delete("/items/{id}", h.RemoveItem)
}

// --- Request / Response types ---

type addItemRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int32           `json:"quantity"`
	ImageRef    string          `json:"image"`
}

type cartItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Quantity    int32  `json:"quantity"`
	ImageRef    string `json:"image"`
	LineTotal   string `json:"line_total"`
}

type cartResponse struct {
	Items       []cartItemResponse `json:"items"`
	Subtotal    string             `json:"subtotal"`
	DeliveryFee string             `json:"delivery_fee"`
	Tax         string             `json:"tax"`
	Total       string             `json:"total"`
}

type addItemResponse struct {
	Item    cartItemResponse `json:"item"`
	Created bool             `json:"created"`
	Cart    cartResponse     `json:"cart"`
}

func toCartItemResponse(it cart.Item) cartItemResponse {
	return cartItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.UnitPrice.StringFixed(2),
		Quantity:    it.Quantity,
		ImageRef:    it.ImageRef,
		LineTotal:   it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)).StringFixed(2),
	}
}

// toCartResponse renders items plus the breakdown; monetary values are
// rounded to two decimals here and nowhere earlier.
func toCartResponse(items []cart.Item, prices pricing.Breakdown) cartResponse {
	resp := cartResponse{
		Items:       make([]cartItemResponse, len(items)),
		Subtotal:    prices.Subtotal.StringFixed(2),
		DeliveryFee: prices.DeliveryFee.StringFixed(2),
		Tax:         prices.Tax.StringFixed(2),
		Total:       prices.Total.StringFixed(2),
	}
	for i, it := range items {
		resp.Items[i] = toCartItemResponse(it)
	}
	return resp
}

// --- Handlers ---

// Get returns the cart with its price breakdown. With ?q= the item list is
// the filtered view, while the breakdown still covers the whole cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc := h.sessions.ForUser(r.Context(), middleware.ClaimsFromContext(r.Context()).UserID)

	items := svc.Items()
	prices := pricing.Compute(items)
	if q := r.URL.Query().Get("q"); q != "" {
		items = svc.Search(q)
	}
	writeJSON(w, http.StatusOK, toCartResponse(items, prices))
}

// AddItem merges an item into the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	svc := h.sessions.ForUser(r.Context(), middleware.ClaimsFromContext(r.Context()).UserID)

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item := cart.Item{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.Price,
		ImageRef:    req.ImageRef,
	}
	merged, created, err := svc.Add(r.Context(), item, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidItem) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	metrics.CartMutations.WithLabelValues("add").Inc()

	items := svc.Items()
	writeJSON(w, http.StatusOK, addItemResponse{
		Item:    toCartItemResponse(merged),
		Created: created,
		Cart:    toCartResponse(items, pricing.Compute(items)),
	})
}

// Increment raises an entry's quantity by one.
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "increment")
}

// Decrement lowers an entry's quantity by one, removing it at zero.
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "decrement")
}

func (h *CartHandler) adjust(w http.ResponseWriter, r *http.Request, op string) {
	svc := h.sessions.ForUser(r.Context(), middleware.ClaimsFromContext(r.Context()).UserID)
	id := chi.URLParam(r, "id")

	var err error
	if op == "increment" {
		_, err = svc.Increment(r.Context(), id)
	} else {
		_, err = svc.Decrement(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart entry not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	metrics.CartMutations.WithLabelValues(op).Inc()

	items := svc.Items()
	writeJSON(w, http.StatusOK, toCartResponse(items, pricing.Compute(items)))
}

// RemoveItem deletes an entry. Removing an absent entry succeeds; the call
// is idempotent.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	svc := h.sessions.ForUser(r.Context(), middleware.ClaimsFromContext(r.Context()).UserID)

	svc.Remove(r.Context(), chi.URLParam(r, "id"))
	metrics.CartMutations.WithLabelValues("remove").Inc()

	items := svc.Items()
	writeJSON(w, http.StatusOK, toCartResponse(items, pricing.Compute(items)))
}

// Clear empties the cart and its persisted blob.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	svc := h.sessions.ForUser(r.Context(), middleware.ClaimsFromContext(r.Context()).UserID)

	svc.Clear(r.Context())
	metrics.CartMutations.WithLabelValues("clear").Inc()

	items := svc.Items()
	writeJSON(w, http.StatusOK, toCartResponse(items, pricing.Compute(items)))
}

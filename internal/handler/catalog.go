package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/milletcart/api/internal/catalog"
)

// CatalogHandler serves the static storefront catalog and offers.
type CatalogHandler struct {
	provider *catalog.Provider
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(provider *catalog.Provider) *CatalogHandler {
	return &CatalogHandler{provider: provider}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
// Expected to be mounted at /catalog.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/items", h.ListItems)
	r.Get("/items/{id}", h.GetItem)
	r.Get("/offers", h.ListOffers)
	r.Get("/promos", h.ListPromos)
}

// --- Response types ---

type menuItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	ImageRef    string  `json:"image"`
}

type offerItemResponse struct {
	menuItemResponse
	OriginalPrice string `json:"original_price"`
	Discount      string `json:"discount"`
	FreeDelivery  bool   `json:"free_delivery"`
	PrepTime      string `json:"prep_time"`
	IsVeg         bool   `json:"is_veg"`
}

func toMenuItemResponse(it catalog.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price.StringFixed(2),
		Category:    it.Category,
		Rating:      it.Rating,
		ImageRef:    it.ImageRef,
	}
}

// --- Handlers ---

// ListItems returns menu items, optionally filtered by ?category= or ?q=.
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var items []catalog.MenuItem
	switch {
	case r.URL.Query().Get("category") != "":
		items = h.provider.ByCategory(r.URL.Query().Get("category"))
	case r.URL.Query().Get("q") != "":
		items = h.provider.Search(r.URL.Query().Get("q"))
	default:
		items = h.provider.Items()
	}

	resp := make([]menuItemResponse, len(items))
	for i, it := range items {
		resp[i] = toMenuItemResponse(it)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetItem returns a single menu item by id.
func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.provider.Item(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// ListOffers returns the discounted offer items.
func (h *CatalogHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers := h.provider.Offers()
	resp := make([]offerItemResponse, len(offers))
	for i, of := range offers {
		resp[i] = offerItemResponse{
			menuItemResponse: toMenuItemResponse(of.MenuItem),
			OriginalPrice:    of.OriginalPrice.StringFixed(2),
			Discount:         of.Discount,
			FreeDelivery:     of.FreeDelivery,
			PrepTime:         of.PrepTime,
			IsVeg:            of.IsVeg,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListPromos returns the promotional banners.
func (h *CatalogHandler) ListPromos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Promos())
}

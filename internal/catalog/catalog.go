// Package catalog provides the static storefront data: the popular menu
// items, the categories, and the promotional offers. There is no network
// fetch; the provider is the in-memory source the cart feeds from. Prices
// are normalized to decimal here, at the boundary — formatted currency
// strings never travel into business logic.
package catalog

import (
	"strings"

	"github.com/milletcart/api/internal/enum"
	"github.com/shopspring/decimal"
)

// MenuItem is a purchasable catalog entry.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	ImageRef    string          `json:"image"`
}

// OfferItem is a discounted catalog entry shown on the offers screen.
type OfferItem struct {
	MenuItem
	OriginalPrice decimal.Decimal `json:"original_price"`
	Discount      string          `json:"discount"`
	FreeDelivery  bool            `json:"free_delivery"`
	PrepTime      string          `json:"prep_time"`
	IsVeg         bool            `json:"is_veg"`
}

// Promo is a promotional banner, not directly purchasable.
type Promo struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	IsNew    bool   `json:"is_new"`
}

// Provider serves the static catalog.
type Provider struct {
	items  []MenuItem
	offers []OfferItem
	promos []Promo
}

// NewProvider builds the provider with the built-in storefront data.
func NewProvider() *Provider {
	return &Provider{items: menuItems, offers: offerItems, promos: promos}
}

// Items returns all menu items.
func (p *Provider) Items() []MenuItem {
	out := make([]MenuItem, len(p.items))
	copy(out, p.items)
	return out
}

// Item looks up a menu item by id.
func (p *Provider) Item(id string) (MenuItem, bool) {
	for _, it := range p.items {
		if it.ID == id {
			return it, true
		}
	}
	return MenuItem{}, false
}

// ByCategory returns the items in the given category.
func (p *Provider) ByCategory(category string) []MenuItem {
	var out []MenuItem
	for _, it := range p.items {
		if strings.EqualFold(it.Category, category) {
			out = append(out, it)
		}
	}
	return out
}

// Search filters items whose name or description contains the query,
// case-insensitively.
func (p *Provider) Search(query string) []MenuItem {
	if query == "" {
		return p.Items()
	}
	q := strings.ToLower(query)
	var out []MenuItem
	for _, it := range p.items {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Description), q) {
			out = append(out, it)
		}
	}
	return out
}

// Offers returns the discounted items.
func (p *Provider) Offers() []OfferItem {
	out := make([]OfferItem, len(p.offers))
	copy(out, p.offers)
	return out
}

// Promos returns the promotional banners.
func (p *Provider) Promos() []Promo {
	out := make([]Promo, len(p.promos))
	copy(out, p.promos)
	return out
}

func price(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

var menuItems = []MenuItem{
	{ID: "1", Name: "Organic Millet", Description: "Healthy organic millet with mixed vegetables", Price: price(299), Category: enum.CategoryMillets, Rating: 4.5, ImageRef: "millet.jpg"},
	{ID: "2", Name: "Rava Dosa", Description: "Crispy South Indian rava dosa with chutney", Price: price(149), Category: enum.CategoryBreakfast, Rating: 4.2, ImageRef: "dosa.jpg"},
	{ID: "3", Name: "Pancakes", Description: "Fluffy pancakes with maple syrup", Price: price(199), Category: enum.CategoryBreakfast, Rating: 4.7, ImageRef: "pancake.jpg"},
	{ID: "4", Name: "Chocolate Shake", Description: "Creamy chocolate milkshake", Price: price(129), Category: enum.CategoryDrinks, Rating: 4.3, ImageRef: "shake.jpg"},
	{ID: "5", Name: "Gulab Jamun", Description: "Sweet fried milk balls in sugar syrup", Price: price(99), Category: enum.CategorySweets, Rating: 4.8, ImageRef: "gulabjamun.jpg"},
	{ID: "6", Name: "Veg Burger", Description: "Delicious veg burger with fresh veggies", Price: price(99), Category: enum.CategorySnacks, Rating: 4.1, ImageRef: "burger.jpg"},
}

var offerItems = []OfferItem{
	{MenuItem: MenuItem{ID: "o1", Name: "Organic snacks", Description: "Classic delight with 100% real organic", Price: price(299), Category: enum.CategorySnacks, Rating: 4.5, ImageRef: "snacks.jpg"}, OriginalPrice: price(599), Discount: "50% OFF", FreeDelivery: true, PrepTime: "20-30 mins", IsVeg: true},
	{MenuItem: MenuItem{ID: "o2", Name: "Organic Sweets", Description: "100% organic sweets", Price: price(199), Category: enum.CategorySweets, Rating: 4.2, ImageRef: "sweets.jpg"}, OriginalPrice: price(299), Discount: "33% OFF", PrepTime: "15-25 mins"},
	{MenuItem: MenuItem{ID: "o3", Name: "Sweets", Description: "Creamy Alfredo sauce with penne pasta", Price: price(249), Category: enum.CategorySweets, Rating: 4.3, ImageRef: "sweets1.jpg"}, OriginalPrice: price(349), Discount: "29% OFF", FreeDelivery: true, PrepTime: "25-35 mins", IsVeg: true},
	{MenuItem: MenuItem{ID: "o4", Name: "Chocolate Shake", Description: "Rich chocolate flavor with whipped cream topping", Price: price(129), Category: enum.CategoryDrinks, Rating: 4.7, ImageRef: "shake.jpg"}, OriginalPrice: price(179), Discount: "28% OFF", FreeDelivery: true, PrepTime: "5-10 mins", IsVeg: true},
	{MenuItem: MenuItem{ID: "o5", Name: "Combo Meal", Description: "A meal with a main course, side dish, and dessert", Price: price(499), Category: enum.CategoryLunch, Rating: 4.8, ImageRef: "combo.jpg"}, OriginalPrice: price(899), Discount: "44% OFF", FreeDelivery: true, PrepTime: "40-50 mins", IsVeg: true},
	{MenuItem: MenuItem{ID: "o6", Name: "Family Combo Pack", Description: "Delicious family meal with 3 dishes", Price: price(799), Category: enum.CategoryDinner, Rating: 4.6, ImageRef: "combo2.jpg"}, OriginalPrice: price(1499), Discount: "47% OFF", FreeDelivery: true, PrepTime: "30-40 mins"},
	{MenuItem: MenuItem{ID: "o7", Name: "Weekend Special Burger Set", Description: "Special weekend burger meal with fries and drink", Price: price(249), Category: enum.CategorySnacks, Rating: 4.3, ImageRef: "burger.jpg"}, OriginalPrice: price(399), Discount: "38% OFF", PrepTime: "10-15 mins"},
	{MenuItem: MenuItem{ID: "o8", Name: "Weekend Special Pizza", Description: "Large pizza with 2 toppings of your choice", Price: price(399), Category: enum.CategoryDinner, Rating: 4.4, ImageRef: "pizza.jpg"}, OriginalPrice: price(599), Discount: "33% OFF", FreeDelivery: true, PrepTime: "20-30 mins"},
}

var promos = []Promo{
	{ID: "p1", Title: "50% OFF", Subtitle: "On first 3 orders", IsNew: true},
	{ID: "p2", Title: "FREE DELIVERY", Subtitle: "On orders above ₹200", IsNew: true},
	{ID: "p3", Title: "COMBO MEAL", Subtitle: "Pizza + Drink @ ₹299"},
	{ID: "p4", Title: "WEEKEND SPECIAL", Subtitle: "Buy 1 Get 1 Free", IsNew: true},
}

package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/milletcart/api/internal/catalog"
	"github.com/milletcart/api/internal/handler"
)

func newCatalogRouter() chi.Router {
	r := chi.NewRouter()
	r.Route("/catalog", handler.NewCatalogHandler(catalog.NewProvider()).RegisterRoutes)
	return r
}

func getJSON(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCatalog_ListItems(t *testing.T) {
	r := newCatalogRouter()

	rr := getJSON(t, r, "/catalog/items")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	items := decodeList(t, rr)
	if len(items) == 0 {
		t.Fatal("expected menu items")
	}
	first := items[0]
	if first["name"] != "Organic Millet" {
		t.Errorf("first item: got %v, want Organic Millet", first["name"])
	}
	if first["price"] != "299.00" {
		t.Errorf("first item price: got %v, want 299.00", first["price"])
	}
}

func TestCatalog_FilterByCategory(t *testing.T) {
	r := newCatalogRouter()

	items := decodeList(t, getJSON(t, r, "/catalog/items?category=DRINKS"))
	if len(items) != 1 {
		t.Fatalf("drinks: got %d items, want 1", len(items))
	}
	if items[0]["name"] != "Chocolate Shake" {
		t.Errorf("drink: got %v, want Chocolate Shake", items[0]["name"])
	}
}

func TestCatalog_Search(t *testing.T) {
	r := newCatalogRouter()

	items := decodeList(t, getJSON(t, r, "/catalog/items?q=dosa"))
	if len(items) != 1 {
		t.Fatalf("search: got %d items, want 1", len(items))
	}
	if items[0]["name"] != "Rava Dosa" {
		t.Errorf("search hit: got %v, want Rava Dosa", items[0]["name"])
	}

	if items := decodeList(t, getJSON(t, r, "/catalog/items?q=sushi")); len(items) != 0 {
		t.Errorf("search miss: got %d items, want 0", len(items))
	}
}

func TestCatalog_GetItem(t *testing.T) {
	r := newCatalogRouter()

	rr := getJSON(t, r, "/catalog/items/5")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	item := decodeResponse(t, rr)
	if item["name"] != "Gulab Jamun" {
		t.Errorf("item 5: got %v, want Gulab Jamun", item["name"])
	}

	rr = getJSON(t, r, "/catalog/items/999")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown item: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestCatalog_Offers(t *testing.T) {
	r := newCatalogRouter()

	rr := getJSON(t, r, "/catalog/offers")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	offers := decodeList(t, rr)
	if len(offers) == 0 {
		t.Fatal("expected offers")
	}
	for _, o := range offers {
		if o["discount"] == "" {
			t.Errorf("offer %v missing discount label", o["id"])
		}
		if o["original_price"] == nil {
			t.Errorf("offer %v missing original price", o["id"])
		}
	}
}

func TestCatalog_Promos(t *testing.T) {
	r := newCatalogRouter()

	rr := getJSON(t, r, "/catalog/promos")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if promos := decodeList(t, rr); len(promos) == 0 {
		t.Error("expected promos")
	}
}

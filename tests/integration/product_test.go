//go:build integration

package integration

import (
	"net/http"
	"net/url"
	"testing"
)

func TestListProducts_Seeded(t *testing.T) {
	token := loginAdmin(t)

	resp := doGet(t, "/admin/products", token)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	list := decodeJSON[productListResponse](t, resp)
	if len(list.Products) < seededCount {
		t.Fatalf("expected at least %d products, got %d", seededCount, len(list.Products))
	}
}

func TestSeededProduct_Fields(t *testing.T) {
	token := loginAdmin(t)
	p := findProduct(t, token, "Stapler, Heavy Duty")

	if p.Price != 18.4 {
		t.Errorf("price: got %v, want 18.4", p.Price)
	}
	if p.Quantity != 45 {
		t.Errorf("quantity: got %d, want 45", p.Quantity)
	}
	if p.LowStockThreshold != 10 {
		t.Errorf("low_stock_threshold: got %d, want 10", p.LowStockThreshold)
	}
}

func TestProductLifecycle(t *testing.T) {
	token := loginAdmin(t)

	// Create.
	resp := doPostForm(t, "/admin/products", token, url.Values{
		"name":                {"Integration Widget"},
		"price":               {"42.00"},
		"quantity":            {"12"},
		"low_stock_threshold": {"3"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("create status: got %d, want 302", resp.StatusCode)
	}

	p := findProduct(t, token, "Integration Widget")

	// Update.
	resp = doPostForm(t, "/admin/products/"+p.ID, token, url.Values{
		"name":                {"Integration Widget v2"},
		"price":               {"45.50"},
		"quantity":            {"20"},
		"low_stock_threshold": {"4"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("update status: got %d, want 302", resp.StatusCode)
	}

	updated := findProduct(t, token, "Integration Widget v2")
	if updated.Quantity != 20 {
		t.Errorf("quantity after update: got %d, want 20", updated.Quantity)
	}

	// Delete.
	resp = doPostForm(t, "/admin/products/"+updated.ID+"/delete", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("delete status: got %d, want 302", resp.StatusCode)
	}

	resp = doGet(t, "/admin/products", token)
	defer resp.Body.Close()
	list := decodeJSON[productListResponse](t, resp)
	for _, q := range list.Products {
		if q.ID == updated.ID {
			t.Fatal("deleted product still listed")
		}
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	token := loginAdmin(t)

	resp := doPostForm(t, "/admin/products/00000000-0000-0000-0000-000000000000", token, url.Values{
		"name":  {"Ghost"},
		"price": {"1.00"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	token := loginAdmin(t)

	resp := doPostForm(t, "/admin/products", token, url.Values{
		"name":  {"Bad Price"},
		"price": {"-3.00"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeJSON[errorResponse](t, resp)
	if _, ok := body.Errors["price"]; !ok {
		t.Errorf("expected a price field error, got %v", body.Errors)
	}
}

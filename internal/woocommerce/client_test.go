package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"elevate-agent/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{
		StoreURL:       srv.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		HTTPClient:     srv.Client(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, srv
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{StoreURL: "https://example.com"})
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	_, err = New(Config{ConsumerKey: "ck", ConsumerSecret: "cs"})
	if err == nil {
		t.Fatal("expected error for missing store URL")
	}
}

func TestListProducts(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/products" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "ck_test" || pass != "cs_test" {
			t.Errorf("basic auth = %q/%q ok=%v", user, pass, ok)
		}
		json.NewEncoder(w).Encode([]wooProduct{
			{ID: 1, Name: "Northstar Lamp", Slug: "northstar-lamp",
				Categories: []wooCategory{{Name: "Lighting"}}},
			{ID: 2, Name: "Desk Mat", Slug: "desk-mat"},
		})
	}))

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].Category != "Lighting" {
		t.Errorf("category = %q, want Lighting", products[0].Category)
	}
	if products[1].Category != "Uncategorized" {
		t.Errorf("uncategorized product got category %q", products[1].Category)
	}
}

func TestGetProductDetail(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("slug"); got != "northstar-lamp" {
			t.Errorf("slug query = %q", got)
		}
		json.NewEncoder(w).Encode([]wooProduct{{
			ID: 7, Name: "Northstar Lamp", Slug: "northstar-lamp",
			Price: "1250.00", ShortDescription: "<p>Warm light.</p>",
			StockStatus: "instock",
			Images:      []wooImage{{Src: "https://cdn.example/lamp.jpg"}},
		}})
	}))

	detail, err := client.GetProductDetail(context.Background(), "northstar-lamp")
	if err != nil {
		t.Fatalf("GetProductDetail() error = %v", err)
	}
	if detail.Price != "1250.00" {
		t.Errorf("price = %q", detail.Price)
	}
	if want := srv.URL + "/product/northstar-lamp"; detail.URL != want {
		t.Errorf("url = %q, want %q", detail.URL, want)
	}
}

func TestGetProductDetailNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))

	_, err := client.GetProductDetail(context.Background(), "nope")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestGetOrder(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/orders/312" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(wooOrder{
			ID: 312, Status: "processing", Total: "2500.00",
			DateCreated:        "2026-08-12T10:30:00",
			PaymentMethodTitle: "Cash on Delivery",
			Billing: wooAddress{FirstName: "Rahim", LastName: "Uddin",
				Email: "rahim@example.com"},
			LineItems: []wooOrderItem{{Name: "Northstar Lamp", Quantity: 2, Total: "2500.00"}},
		})
	}))

	order, err := client.GetOrder(context.Background(), 312)
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if order.BillingName != "Rahim Uddin" {
		t.Errorf("billing name = %q", order.BillingName)
	}
	if len(order.LineItems) != 1 || order.LineItems[0].Quantity != 2 {
		t.Errorf("line items = %+v", order.LineItems)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(wooError{Code: "woocommerce_rest_shop_order_invalid_id",
			Message: "Invalid ID."})
	}))

	_, err := client.GetOrder(context.Background(), 999999)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateOrder(t *testing.T) {
	var captured orderPayload
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/wp-json/wc/v3/orders" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(wooOrder{ID: 501, Total: "1250.00"})
	}))

	created, err := client.CreateOrder(context.Background(), model.OrderSubmission{
		ProductID:     7,
		Quantity:      1,
		CustomerName:  "Rahim Uddin",
		CustomerEmail: "rahim@example.com",
		Address:       "House 12, Road 3, Dhanmondi, Dhaka",
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if created.ID != 501 || created.Total != "1250.00" {
		t.Errorf("created = %+v", created)
	}

	if captured.PaymentMethod != "bacs" || captured.PaymentMethodTitle != "Cash on Delivery" {
		t.Errorf("payment method = %q/%q", captured.PaymentMethod, captured.PaymentMethodTitle)
	}
	if captured.SetPaid {
		t.Error("orders must be created unpaid")
	}
	if captured.Billing.FirstName != "Rahim" || captured.Billing.LastName != "Uddin" {
		t.Errorf("billing name = %q %q", captured.Billing.FirstName, captured.Billing.LastName)
	}
	if captured.Billing.Country != "BD" || captured.Billing.City != "." {
		t.Errorf("billing placeholders = %+v", captured.Billing)
	}
	if captured.Shipping.Email != "" {
		t.Error("shipping address should not carry email")
	}
	if len(captured.LineItems) != 1 || captured.LineItems[0].ProductID != 7 {
		t.Errorf("line items = %+v", captured.LineItems)
	}
}

func TestMarkOrderPaid(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/wp-json/wc/v3/orders/501" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var payload statusPayload
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.Status != "processing" || !payload.SetPaid {
			t.Errorf("payload = %+v", payload)
		}
		json.NewEncoder(w).Encode(wooOrder{ID: 501, Status: "processing"})
	}))

	if err := client.MarkOrderPaid(context.Background(), 501); err != nil {
		t.Fatalf("MarkOrderPaid() error = %v", err)
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"Rahim Uddin", "Rahim", "Uddin"},
		{"Mary Ann Smith", "Mary Ann", "Smith"},
		{"Prince", "Prince", "."},
		{"  Ayesha  ", "Ayesha", "."},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("splitName(%q) = %q, %q; want %q, %q", tt.in, first, last, tt.first, tt.last)
		}
	}
}

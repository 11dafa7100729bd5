// Package woocommerce implements the storefront collaborator using the
// WooCommerce REST API (v3). All WooCommerce-specific types, transforms,
// and HTTP client logic live here.
package woocommerce

// === WooCommerce API response types ===

// wooProduct represents a product from GET /products.
// Prices are decimal strings (e.g. "99.00"), matching the wire format.
type wooProduct struct {
	ID               int           `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Price            string        `json:"price"`
	ShortDescription string        `json:"short_description"`
	StockStatus      string        `json:"stock_status"`
	Categories       []wooCategory `json:"categories"`
	Images           []wooImage    `json:"images"`
}

type wooCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type wooImage struct {
	Src string `json:"src"`
}

// wooOrder represents an order from GET /orders/{id} and POST /orders.
type wooOrder struct {
	ID                 int            `json:"id"`
	Status             string         `json:"status"`
	Total              string         `json:"total"`
	DateCreated        string         `json:"date_created"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	Billing            wooAddress     `json:"billing"`
	LineItems          []wooOrderItem `json:"line_items"`
}

type wooOrderItem struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

type wooAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Address1  string `json:"address_1"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// wooError is the standard WooCommerce error body.
type wooError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// === Request payloads ===

// orderPayload is the POST /orders request body.
type orderPayload struct {
	PaymentMethod      string         `json:"payment_method"`
	PaymentMethodTitle string         `json:"payment_method_title"`
	SetPaid            bool           `json:"set_paid"`
	Billing            wooAddress     `json:"billing"`
	Shipping           wooAddress     `json:"shipping"`
	LineItems          []orderPayItem `json:"line_items"`
}

type orderPayItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// statusPayload is the PUT /orders/{id} request body for status transitions.
type statusPayload struct {
	Status  string `json:"status"`
	SetPaid bool   `json:"set_paid"`
}

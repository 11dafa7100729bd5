// Package model defines shared domain types and the API error taxonomy.
package model

// Product is the flattened catalog entry the assistant works with.
// Identity is the slug; the assistant only reads and reshapes products.
type Product struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
}

// ProductDetail enriches a Product with live storefront data.
// Price and totals stay as decimal strings, matching the storefront API.
type ProductDetail struct {
	Product
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	StockStatus string `json:"stock_status"`
	URL         string `json:"url"`
}

// OrderLineItem is one purchased item on an order.
type OrderLineItem struct {
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

// OrderInfo is a read-only snapshot of a storefront order.
type OrderInfo struct {
	ID                 int             `json:"id"`
	Status             string          `json:"status"`
	BillingName        string          `json:"billing_name,omitempty"`
	BillingEmail       string          `json:"billing_email"`
	LineItems          []OrderLineItem `json:"line_items"`
	Total              string          `json:"total"`
	DateCreated        string          `json:"date_created"`
	PaymentMethodTitle string          `json:"payment_method_title,omitempty"`
}

// OrderSubmission carries the validated fields needed to place an order
// on behalf of a chat customer.
type OrderSubmission struct {
	ProductID     int
	Quantity      int
	CustomerName  string
	CustomerEmail string
	Address       string
}

// CreatedOrder is the storefront's answer to a successful order submission.
type CreatedOrder struct {
	ID    int    `json:"id"`
	Total string `json:"total"`
}

// QueryResult is the terminal shape of every assistant turn.
// Success is false only when the turn failed internally; business-level
// refusals (missing fields, unknown product) still report success=true
// with an explanatory reply.
type QueryResult struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

package woocommerce

import (
	"strings"

	"elevate-agent/internal/model"
)

// toProduct flattens a storefront product to the catalog entry the
// assistant matches against. The first category wins; most products
// carry exactly one.
func toProduct(p wooProduct) model.Product {
	category := "Uncategorized"
	if len(p.Categories) > 0 && p.Categories[0].Name != "" {
		category = p.Categories[0].Name
	}
	return model.Product{
		Name:     p.Name,
		Slug:     p.Slug,
		Category: category,
	}
}

// toProductDetail enriches the flattened entry with live pricing and stock.
func toProductDetail(p wooProduct, storeURL string) model.ProductDetail {
	imageURL := ""
	if len(p.Images) > 0 {
		imageURL = p.Images[0].Src
	}
	return model.ProductDetail{
		Product:     toProduct(p),
		Price:       p.Price,
		Description: p.ShortDescription,
		ImageURL:    imageURL,
		StockStatus: p.StockStatus,
		URL:         strings.TrimSuffix(storeURL, "/") + "/product/" + p.Slug,
	}
}

// toOrderInfo maps a storefront order to the read-only snapshot the
// assistant reports from. Line items are never nil.
func toOrderInfo(o wooOrder) model.OrderInfo {
	items := make([]model.OrderLineItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		items = append(items, model.OrderLineItem{
			Name:     li.Name,
			Slug:     li.SKU,
			Quantity: li.Quantity,
			Total:    li.Total,
		})
	}
	name := strings.TrimSpace(o.Billing.FirstName + " " + o.Billing.LastName)
	return model.OrderInfo{
		ID:                 o.ID,
		Status:             o.Status,
		BillingName:        name,
		BillingEmail:       o.Billing.Email,
		LineItems:          items,
		Total:              o.Total,
		DateCreated:        o.DateCreated,
		PaymentMethodTitle: o.PaymentMethodTitle,
	}
}

// buildOrderPayload assembles the order submission body. Orders are placed
// as cash-on-delivery and unpaid; card and gateway payments are collected
// after the order exists, against its ID. The storefront requires the full
// billing address schema, so unknown fields are filled with placeholders
// and the free-text address goes into address_1.
func buildOrderPayload(sub model.OrderSubmission) orderPayload {
	first, last := splitName(sub.CustomerName)
	billing := wooAddress{
		FirstName: first,
		LastName:  last,
		Email:     sub.CustomerEmail,
		Address1:  sub.Address,
		City:      ".",
		State:     ".",
		Postcode:  ".",
		Country:   "BD",
	}
	shipping := billing
	shipping.Email = ""
	return orderPayload{
		PaymentMethod:      "bacs",
		PaymentMethodTitle: "Cash on Delivery",
		SetPaid:            false,
		Billing:            billing,
		Shipping:           shipping,
		LineItems: []orderPayItem{
			{ProductID: sub.ProductID, Quantity: sub.Quantity},
		},
	}
}

// splitName splits a free-text customer name into first/last on the final
// space. Single-word names get "." as the last name to satisfy the
// storefront's required-field validation.
func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name, "."
	}
	return name[:idx], name[idx+1:]
}

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"elevate-agent/internal/model"
)

// Extraction patterns for the structured order fields. These cover the
// phrasings customers actually use ("buy 2 black t-shirts", "my name is",
// "ship to"); anything else falls through to model extraction.
var (
	quantityRe      = regexp.MustCompile(`(?i)(?:order|buy|purchase|get)\s+(\d+)`)
	productNameRe   = regexp.MustCompile(`(?i)(?:order|buy|purchase|get)\s+\d*\s*([a-zA-Z\s-]+)`)
	customerNameRe  = regexp.MustCompile(`(?i)(?:my name is|I am|I'm)\s+([a-zA-Z\s]+)`)
	customerEmailRe = regexp.MustCompile(`(?i)(?:my email is|email)\s+([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-z]{2,})`)
	addressRe       = regexp.MustCompile(`(?i)(?:address is|ship (?:it )?to|deliver to)\s+(.+?)(\.|$)`)
)

// strictEmailRe validates the extracted email before an order is placed.
var strictEmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// codeFenceRe strips markdown fences from model JSON output.
var codeFenceRe = regexp.MustCompile("(?i)`|json")

// llmFallbackThreshold is how many draft fields may be missing before the
// regexes are deemed to have failed and the model extracts semantically.
const llmFallbackThreshold = 2

// orderDraft holds the five fields needed to place an order, as strings
// straight out of extraction. Empty means not yet provided.
type orderDraft struct {
	ProductName   string `json:"productName"`
	Quantity      string `json:"quantity"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	Address       string `json:"address"`
}

// missingFields lists the unfilled draft fields in reporting order.
func (d orderDraft) missingFields() []string {
	var missing []string
	if d.ProductName == "" {
		missing = append(missing, "productName")
	}
	if d.Quantity == "" {
		missing = append(missing, "quantity")
	}
	if d.CustomerName == "" {
		missing = append(missing, "customerName")
	}
	if d.CustomerEmail == "" {
		missing = append(missing, "customerEmail")
	}
	if d.Address == "" {
		missing = append(missing, "address")
	}
	return missing
}

// creationResult is the terminal state of an order creation turn. Placed
// is false for business refusals (missing fields, unknown product) where
// the reply asks the customer to try again.
type creationResult struct {
	Placed  bool   `json:"placed"`
	Reply   string `json:"reply"`
	OrderID int    `json:"order_id,omitempty"`
	Total   string `json:"total,omitempty"`

	// Payment hand-off details, set only when the order was placed.
	StripeClientSecret string `json:"stripe_client_secret,omitempty"`
	PaymentURL         string `json:"payment_url,omitempty"`
}

// ReplyText implements the reply formatter contract.
func (r creationResult) ReplyText() string { return r.Reply }

// extractDraft pulls order fields out of the query with the phrase
// patterns. Quantity defaults to one.
func extractDraft(query string) orderDraft {
	draft := orderDraft{
		Quantity:      firstSubmatch(quantityRe, query),
		ProductName:   firstSubmatch(productNameRe, query),
		CustomerName:  firstSubmatch(customerNameRe, query),
		CustomerEmail: firstSubmatch(customerEmailRe, query),
		Address:       firstSubmatch(addressRe, query),
	}
	if draft.Quantity == "" {
		draft.Quantity = "1"
	}
	return draft
}

func firstSubmatch(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

const extractionPromptFormat = `
Extract the following information from the customer query:
- Product name
- Quantity
- Customer name
- Customer email
- Address

Respond ONLY with a JSON object:
{
  "productName": "...",
  "quantity": "...",
  "customerName": "...",
  "customerEmail": "...",
  "address": "..."
}

Customer Query: %q
`

// llmExtract asks the model for the draft fields and fills gaps in the
// regex draft. Pattern-extracted values take precedence; the model only
// contributes fields the patterns missed. A malformed model answer leaves
// the draft unchanged.
func (a *Agent) llmExtract(ctx context.Context, query string, draft orderDraft) orderDraft {
	resp, err := a.llm.Complete(ctx, fmt.Sprintf(extractionPromptFormat, query))
	if err != nil {
		a.logger.Warn("order field extraction failed", "error", err)
		return draft
	}

	cleaned := strings.TrimSpace(codeFenceRe.ReplaceAllString(resp.Text(), ""))
	var parsed orderDraft
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		a.logger.Warn("order field extraction returned malformed JSON", "error", err)
		return draft
	}

	if draft.ProductName == "" {
		draft.ProductName = strings.TrimSpace(parsed.ProductName)
	}
	if draft.Quantity == "" {
		draft.Quantity = strings.TrimSpace(parsed.Quantity)
	}
	if draft.CustomerName == "" {
		draft.CustomerName = strings.TrimSpace(parsed.CustomerName)
	}
	if draft.CustomerEmail == "" {
		draft.CustomerEmail = strings.TrimSpace(parsed.CustomerEmail)
	}
	if draft.Address == "" {
		draft.Address = strings.TrimSpace(parsed.Address)
	}
	return draft
}

// handleOrderCreation runs the full order flow: extract fields, ask for
// anything still missing, match the product, place the order, and set up
// both payment options.
func (a *Agent) handleOrderCreation(ctx context.Context, query string) creationResult {
	draft := extractDraft(query)

	if len(draft.missingFields()) > llmFallbackThreshold {
		draft = a.llmExtract(ctx, query, draft)
	}

	if missing := draft.missingFields(); len(missing) > 0 {
		return creationResult{
			Reply: fmt.Sprintf("📝 To place your order, I need the following information: **%s**.\n\n"+
				`💡 *Example: "I want to buy 2 black t-shirts. My name is Alex, my email is alex@email.com, and my address is 123 Main St, Dhaka."*`,
				strings.Join(missing, ", ")),
		}
	}

	if !strictEmailRe.MatchString(draft.CustomerEmail) {
		return creationResult{
			Reply: "❌ Please provide a valid email address (e.g., my email is example@example.com).",
		}
	}

	// Match against a fresh catalog listing, not the cache: placing an
	// order against a product that vanished minutes ago is worse than one
	// extra storefront call.
	products, err := a.store.ListProducts(ctx)
	if err != nil {
		a.logger.Error("catalog listing failed during order creation", "error", err)
		return creationResult{
			Reply: "❌ Failed to create order: the product catalog is unavailable right now. Please try again later.",
		}
	}

	wanted := strings.ToLower(draft.ProductName)
	slug := ""
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), wanted) {
			slug = p.Slug
			break
		}
	}
	if slug == "" {
		return creationResult{
			Reply: fmt.Sprintf("❌ I couldn't find any product matching %q. Please check the name and try again.", draft.ProductName),
		}
	}

	quantity, err := strconv.Atoi(draft.Quantity)
	if err != nil || quantity < 1 {
		quantity = 1
	}

	productID, err := a.store.GetProductIDBySlug(ctx, slug)
	if err != nil {
		a.logger.Error("product id lookup failed", "slug", slug, "error", err)
		return creationResult{
			Reply: fmt.Sprintf("❌ Failed to create order: %v", err),
		}
	}

	order, err := a.store.CreateOrder(ctx, model.OrderSubmission{
		ProductID:     productID,
		Quantity:      quantity,
		CustomerName:  draft.CustomerName,
		CustomerEmail: draft.CustomerEmail,
		Address:       draft.Address,
	})
	if err != nil {
		a.logger.Error("order creation failed", "slug", slug, "error", err)
		return creationResult{
			Reply: fmt.Sprintf("❌ Failed to create order: %v", err),
		}
	}

	result := creationResult{
		Placed:  true,
		OrderID: order.ID,
		Total:   order.Total,
		Reply: fmt.Sprintf("✅ Order created successfully! Your order number is **%d** and total is ৳%s.",
			order.ID, order.Total),
	}

	// Payment setup is best effort. The order exists either way and both
	// gateways can be retried through the payment endpoints.
	if a.cards != nil {
		secret, err := a.cards.CreateIntent(ctx, order.ID, order.Total)
		if err != nil {
			a.logger.Warn("stripe intent setup failed", "order_id", order.ID, "error", err)
		} else {
			result.StripeClientSecret = secret
		}
	}
	if a.redirects != nil {
		url, err := a.redirects.InitiateRedirect(ctx, order.ID, order.Total, draft.CustomerName, draft.CustomerEmail)
		if err != nil {
			a.logger.Warn("sslcommerz session setup failed", "order_id", order.ID, "error", err)
		} else {
			result.PaymentURL = url
		}
	}

	return result
}

package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"elevate-agent/internal/model"
)

var htmlTagRe = regexp.MustCompile(`<[^>]*>?`)

// descriptionLimit caps how much of a product description goes into the
// response prompt.
const descriptionLimit = 200

// search answers a product information query. Direct catalog matches are
// enriched with live storefront details and summarized by the model; with
// no match the full catalog goes to the model for interpretation.
func (a *Agent) search(ctx context.Context, query string, products []model.Product) string {
	cleaned := normalize(query)

	var matched []model.Product
	for _, p := range products {
		name := normalize(p.Name)
		slug := normalize(p.Slug)
		if strings.Contains(name, cleaned) || strings.Contains(slug, cleaned) ||
			strings.Contains(cleaned, name) || strings.Contains(cleaned, slug) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		return a.searchFallback(ctx, query, products)
	}

	details := a.fetchDetails(ctx, matched)

	var summaries []string
	for _, d := range details {
		summaries = append(summaries, fmt.Sprintf(
			"Product: %s\nPrice: ৳%s\nStock: %s\nDescription: %s\nLink: %s",
			d.Name, d.Price, d.StockStatus, cleanDescription(d.Description), d.URL))
	}

	prompt := fmt.Sprintf(`
Customer query: %q

Matching products:
%s

Respond as a helpful AI store assistant. Explain these products politely and clearly. Answer naturally.
`, query, strings.Join(summaries, "\n\n"))

	resp, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("search summary failed", "error", err)
		resp = nil
	}
	if text := resp.Text(); text != "" {
		return text
	}
	return fmt.Sprintf("I found some products related to %q but couldn't generate a proper response.", query)
}

// searchFallback hands a query with no direct catalog match to the model
// along with the full product list.
func (a *Agent) searchFallback(ctx context.Context, query string, products []model.Product) string {
	prompt := fmt.Sprintf(`
You are a smart product assistant. User query: %q.
Here is the product list: %s.

Suggest the top 5 relevant products by name and slug. Respond briefly with only product names and slugs.
`, query, catalogListing(products))

	resp, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("search fallback failed", "error", err)
		resp = nil
	}
	if text := resp.Text(); text != "" {
		return text
	}
	return fmt.Sprintf("I couldn't find any product matching %q. Please try with a different query.", query)
}

// fetchDetails enriches matched products with live storefront data in
// parallel. A failed detail fetch degrades that entry to catalog data with
// placeholders instead of dropping it.
func (a *Agent) fetchDetails(ctx context.Context, matched []model.Product) []model.ProductDetail {
	details := make([]model.ProductDetail, len(matched))
	var wg sync.WaitGroup
	for i, p := range matched {
		wg.Add(1)
		go func(i int, p model.Product) {
			defer wg.Done()
			detail, err := a.store.GetProductDetail(ctx, p.Slug)
			if err != nil {
				a.logger.Warn("product detail fetch failed", "slug", p.Slug, "error", err)
				details[i] = model.ProductDetail{
					Product:     p,
					Price:       "N/A",
					Description: "No description available.",
					StockStatus: "Unknown",
					URL:         "/product/" + p.Slug,
				}
				return
			}
			details[i] = *detail
		}(i, p)
	}
	wg.Wait()
	return details
}

// cleanDescription strips HTML and truncates for prompt use.
func cleanDescription(desc string) string {
	s := htmlTagRe.ReplaceAllString(desc, "")
	if s == "" {
		return "No description available."
	}
	if len(s) > descriptionLimit {
		s = s[:descriptionLimit]
	}
	return s
}

// catalogListing renders the catalog as the one-line-per-product listing
// used in prompts.
func catalogListing(products []model.Product) string {
	entries := make([]string, 0, len(products))
	for _, p := range products {
		entries = append(entries, fmt.Sprintf("%s (slug: %s, category: %s)", p.Name, p.Slug, p.Category))
	}
	return strings.Join(entries, ", ")
}

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"elevate-agent/internal/model"
)

const suggestPromptFormat = `Suggest similar products to %s in category %s. Consider these products: %s. Respond with a JSON array of objects with 'name', 'slug', and 'category' keys. Make sure the response is a valid JSON. Example: [{"name": "Product A", "slug": "product-a", "category": "Category 1"}]. If there are no similar products, return a response saying "No similar products found". Do not respond with any random product.`

var (
	numberedLineRe = regexp.MustCompile(`^\d+\.\s*(.*?)(?:\s*:\s*.*)?$`)
	suggestSlugRe  = regexp.MustCompile(`(?i)slug:\s*([a-zA-Z0-9-]+)`)
	categoryRe     = regexp.MustCompile(`(?i)category:\s*([a-zA-Z0-9\s-]+)`)
)

// SuggestSimilar asks the model for products similar to the named one,
// restricted to the current catalog. The model is asked for JSON; answers
// that come back as a numbered list instead are salvaged line by line.
// Unusable answers yield an empty list, never an error.
func (a *Agent) SuggestSimilar(ctx context.Context, productName, category string) []model.Product {
	products := a.catalog.Products(ctx)

	prompt := fmt.Sprintf(suggestPromptFormat, productName, category, catalogListing(products))
	resp, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("similar product suggestion failed", "error", err)
		return []model.Product{}
	}
	text := resp.Text()

	cleaned := strings.TrimSpace(codeFenceRe.ReplaceAllString(text, ""))
	var parsed []model.Product
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		suggestions := make([]model.Product, 0, len(parsed))
		for _, p := range parsed {
			if p.Name != "" && p.Slug != "" {
				suggestions = append(suggestions, p)
			}
		}
		return suggestions
	}

	return parseNumberedSuggestions(text, category)
}

// parseNumberedSuggestions recovers suggestions from a "1. Name (slug:
// ...)" style answer.
func parseNumberedSuggestions(text, fallbackCategory string) []model.Product {
	suggestions := []model.Product{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		m := numberedLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}

		slug := ""
		if sm := suggestSlugRe.FindStringSubmatch(line); sm != nil {
			slug = sm[1]
		} else {
			slug = strings.ReplaceAll(strings.ToLower(name), " ", "-")
		}

		category := fallbackCategory
		if cm := categoryRe.FindStringSubmatch(line); cm != nil {
			category = strings.TrimSpace(cm[1])
		}

		suggestions = append(suggestions, model.Product{Name: name, Slug: slug, Category: category})
	}
	return suggestions
}

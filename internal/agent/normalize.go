// Package agent implements the conversational shopping assistant: intent
// classification, product search, order creation and status lookups, all
// driven by a language model and the storefront catalog.
package agent

import (
	"regexp"
	"strings"
)

var (
	punctRe      = regexp.MustCompile(`[^a-z0-9\s-]`)
	fillerRe     = regexp.MustCompile(`\b(pair of|set of|piece of|buy|order|get|purchase|pair)\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalize canonicalizes free text for product matching: lowercase, strip
// punctuation, drop shopping filler words, collapse whitespace.
// Idempotent, so already-normalized text passes through unchanged.
func normalize(text string) string {
	s := strings.ToLower(text)
	s = punctRe.ReplaceAllString(s, "")
	s = fillerRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

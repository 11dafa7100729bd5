package agent

import "elevate-agent/internal/llm"

// fallbackReply is shown when a handler produced nothing usable.
const fallbackReply = "I'm sorry, I encountered an issue processing your request. Please try rephrasing."

// Replier is implemented by handler results that carry their own reply
// text, like order creation outcomes.
type Replier interface {
	ReplyText() string
}

// formatReply flattens the varied handler result shapes into the single
// string the customer sees: plain strings pass through, Replier results
// contribute their reply, raw model envelopes contribute their first
// candidate's text. Anything else gets the apology fallback.
func formatReply(v any) string {
	switch result := v.(type) {
	case string:
		if result != "" {
			return result
		}
	case Replier:
		if reply := result.ReplyText(); reply != "" {
			return reply
		}
	case *llm.Response:
		if text := result.Text(); text != "" {
			return text
		}
	}
	return fallbackReply
}

package agent

import (
	"context"
	"fmt"
	"strings"
)

// Intent is the closed set of conversation intents the assistant routes on.
type Intent string

const (
	IntentRefund        Intent = "refund"
	IntentProductInfo   Intent = "product_information"
	IntentOrderCreation Intent = "order_creation"
	IntentRegularChat   Intent = "regular_chat"
	IntentContext       Intent = "context"
	IntentOrderStatus   Intent = "order_status"
	IntentHelp          Intent = "help"
	IntentUnrecognized  Intent = "unrecognized"
)

const intentPromptFormat = `
You are a customer service AI. Classify this user's query into one of the following intents:
- refund
- product_information
- order_creation
- regular_chat
- context
- order_status
- help

Customer question: %q

Respond with only one word: refund, product_information, order_creation, regular_chat, context or order_status.
`

// intentPriority orders containment checks on the model's answer. The model
// sometimes pads its one-word answer, and "order_status" contains "order",
// so matching runs in a fixed priority order rather than on equality.
var intentPriority = []Intent{
	IntentRefund,
	IntentProductInfo,
	IntentRegularChat,
	IntentHelp,
	IntentContext,
	IntentOrderCreation,
	IntentOrderStatus,
}

// classifyIntent asks the model for the query's intent and maps the answer
// onto the closed intent set. Any failure degrades to IntentUnrecognized,
// which routes to the rephrase reply rather than an error.
func (a *Agent) classifyIntent(ctx context.Context, query string) Intent {
	resp, err := a.llm.Complete(ctx, fmt.Sprintf(intentPromptFormat, query))
	if err != nil {
		a.logger.Warn("intent classification failed", "error", err)
		return IntentUnrecognized
	}
	answer := strings.ToLower(resp.Text())
	for _, intent := range intentPriority {
		if strings.Contains(answer, string(intent)) {
			return intent
		}
	}
	return IntentUnrecognized
}

package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"elevate-agent/internal/llm"
	"elevate-agent/internal/model"
)

// internalErrorReply is the only reply paired with success=false.
const internalErrorReply = "An internal error occurred. Our team has been notified."

// Store is the storefront capability the assistant depends on.
type Store interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProductDetail(ctx context.Context, slug string) (*model.ProductDetail, error)
	GetProductIDBySlug(ctx context.Context, slug string) (int, error)
	GetOrder(ctx context.Context, orderID int) (*model.OrderInfo, error)
	CreateOrder(ctx context.Context, sub model.OrderSubmission) (*model.CreatedOrder, error)
}

// CardPayments creates card payment intents for placed orders.
type CardPayments interface {
	CreateIntent(ctx context.Context, orderID int, total string) (string, error)
}

// RedirectPayments opens hosted-checkout sessions for placed orders.
type RedirectPayments interface {
	InitiateRedirect(ctx context.Context, orderID int, total, customerName, customerEmail string) (string, error)
}

// Config holds the assistant's collaborators and policy knobs.
type Config struct {
	Store        Store
	LLM          llm.Completer
	Cards        CardPayments     // optional
	Redirects    RedirectPayments // optional
	RefundPolicy string
	StoreName    string
	Logger       *slog.Logger

	// LookupTimeout caps order lookups. Zero means the default.
	LookupTimeout time.Duration
}

// Agent is the conversational shopping assistant. One instance serves all
// sessions; per-conversation state lives in the session store.
type Agent struct {
	store         Store
	llm           llm.Completer
	cards         CardPayments
	redirects     RedirectPayments
	refundPolicy  string
	storeName     string
	logger        *slog.Logger
	catalog       *catalogCache
	sessions      *SessionStore
	lookupTimeout time.Duration
}

// New creates an assistant from its collaborators.
func New(cfg Config) (*Agent, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.LLM == nil {
		return nil, fmt.Errorf("llm completer is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.LookupTimeout
	if timeout == 0 {
		timeout = defaultLookupTimeout
	}
	storeName := cfg.StoreName
	if storeName == "" {
		storeName = "Elevate Store"
	}
	return &Agent{
		store:         cfg.Store,
		llm:           cfg.LLM,
		cards:         cfg.Cards,
		redirects:     cfg.Redirects,
		refundPolicy:  cfg.RefundPolicy,
		storeName:     storeName,
		logger:        logger,
		catalog:       newCatalogCache(cfg.Store),
		sessions:      NewSessionStore(),
		lookupTimeout: timeout,
	}, nil
}

// Sessions exposes the session store for transport-level session handling.
func (a *Agent) Sessions() *SessionStore {
	return a.sessions
}

// ProcessQuery runs one chat turn: classify the intent, dispatch to the
// matching handler, flatten the result to a reply, and record both turns
// on the session. Business refusals still report success; only internal
// failures and panics flip it off.
func (a *Agent) ProcessQuery(ctx context.Context, sessionID, query string) (result model.QueryResult) {
	session := a.sessions.Resolve(sessionID)

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("panic processing query", "panic", r, "session_id", session.ID)
			result = model.QueryResult{Success: false, Reply: internalErrorReply}
		}
	}()

	a.logger.Info("processing query", "session_id", session.ID, "query", query)

	intent := a.classifyIntent(ctx, query)
	a.logger.Info("detected intent", "session_id", session.ID, "intent", intent)

	raw := a.dispatch(ctx, intent, session, query)
	reply := formatReply(raw)

	session.Append("customer", query)
	session.Append("assistant", reply)

	return model.QueryResult{Success: true, Reply: reply}
}

// dispatch routes a classified query to its handler. The switch is
// exhaustive over the intent set; unrecognized asks for a rephrase.
func (a *Agent) dispatch(ctx context.Context, intent Intent, session *Session, query string) any {
	switch intent {
	case IntentRefund:
		return a.handleRefund(ctx, query)
	case IntentProductInfo:
		return a.search(ctx, query, a.catalog.Products(ctx))
	case IntentRegularChat:
		return a.complete(ctx, fmt.Sprintf("User asks: %s", query))
	case IntentHelp:
		return a.handleHelp(ctx, query)
	case IntentContext:
		return a.handleContext(ctx, session, query)
	case IntentOrderCreation:
		return a.handleOrderCreation(ctx, query)
	case IntentOrderStatus:
		return a.handleOrderStatus(ctx, query)
	case IntentUnrecognized:
		return "Sorry, I couldn't understand your request. Please can you rephrase your query."
	default:
		return "Sorry, I couldn't understand your request. Please can you rephrase your query."
	}
}

// complete runs a prompt and returns the raw envelope for the formatter.
// Errors surface as nil, which formats to the apology fallback.
func (a *Agent) complete(ctx context.Context, prompt string) *llm.Response {
	resp, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.logger.Warn("completion failed", "error", err)
		return nil
	}
	return resp
}

// handleHelp answers how-do-I questions as the store's support agent.
func (a *Agent) handleHelp(ctx context.Context, query string) *llm.Response {
	prompt := fmt.Sprintf(`User asks: %s. Respond as if you are the customer support agent for %s. Give specific instructions (step by step procedure) or information based on the query. If you don't know the answer, say "I'm not sure, but I can help you with product information, order status, or refund policies."`,
		query, a.storeName)
	return a.complete(ctx, prompt)
}

// handleContext answers follow-up questions against the session history.
func (a *Agent) handleContext(ctx context.Context, session *Session, query string) *llm.Response {
	transcript := session.Transcript()
	if transcript == "" {
		transcript = "(no previous conversation)"
	}
	prompt := fmt.Sprintf(`Previous conversation:
%s
User now asks: %s
Respond according to the context of the previous conversation.`, transcript, query)
	return a.complete(ctx, prompt)
}

// handleRefund answers refund questions from the policy, enriched with
// order details when the query names an order the assistant can fetch.
func (a *Agent) handleRefund(ctx context.Context, query string) *llm.Response {
	orderContext := ""
	if order, err := a.resolveOrder(ctx, query); err == nil {
		var names []string
		for _, item := range order.LineItems {
			names = append(names, fmt.Sprintf("%s (slug: %s)", item.Name, item.Slug))
		}
		orderContext = fmt.Sprintf(`
Order Details:
Order ID: %d
Products: %s
Order Status: %s
`, order.ID, strings.Join(names, ", "), order.Status)
	}

	prompt := fmt.Sprintf(`
You are a customer support agent for %s.

Refund Policy:
%s
%s
When answering refund questions, always provide clear, friendly, and accurate responses based on the policy and order details. Respond as if you are the seller and include only relevant precise human responses.

Customer Question: %q
`, a.storeName, a.refundPolicy, orderContext, query)
	return a.complete(ctx, prompt)
}

// handleOrderStatus reports an order's status. An email is required in the
// query before any order data is fetched, and it must match the order's
// billing email.
func (a *Agent) handleOrderStatus(ctx context.Context, query string) string {
	if emailRe.FindString(query) == "" {
		return "For your security, please provide the email address used for this order (e.g., 'What is the status of order 123 for john@example.com?')."
	}

	order, err := a.resolveOrder(ctx, query)
	switch {
	case err == nil:
		return formatOrderReply(order)
	case errors.Is(err, errEmailMismatch):
		return "The email you provided does not match the order. Please check and try again."
	case errors.Is(err, errOrderLookup):
		return "Sorry, I couldn't retrieve your order information at this time. Please try again later."
	default:
		return "I couldn't find any order information related to your query. Please ensure you provided the correct order ID and email."
	}
}

// Search answers a product information query directly, outside the intent
// pipeline. Used by the search tool surface.
func (a *Agent) Search(ctx context.Context, query string) string {
	return a.search(ctx, query, a.catalog.Products(ctx))
}

// OrderStatus answers an order status query directly, outside the intent
// pipeline. Used by the order status tool surface.
func (a *Agent) OrderStatus(ctx context.Context, query string) string {
	return a.handleOrderStatus(ctx, query)
}

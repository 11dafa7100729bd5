// Package handler provides HTTP handlers for the shopping assistant API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"elevate-agent/internal/model"
	"elevate-agent/internal/validation"
)

// Assistant is the conversational surface the handlers expose.
type Assistant interface {
	ProcessQuery(ctx context.Context, sessionID, query string) model.QueryResult
	Search(ctx context.Context, query string) string
	OrderStatus(ctx context.Context, query string) string
	SuggestSimilar(ctx context.Context, productName, category string) []model.Product
}

// OrderReader fetches orders for the payment endpoints.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID int) (*model.OrderInfo, error)
}

// CardPayments creates card payment intents.
type CardPayments interface {
	CreateIntent(ctx context.Context, orderID int, total string) (string, error)
}

// RedirectPayments opens hosted-checkout sessions.
type RedirectPayments interface {
	InitiateRedirect(ctx context.Context, orderID int, total, customerName, customerEmail string) (string, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	assistant Assistant
	orders    OrderReader
	cards     CardPayments     // nil disables the stripe endpoint
	redirects RedirectPayments // nil disables the sslcommerz endpoint
	validate  *validator.Validate
	logger    *slog.Logger
}

// New creates a Handler. Payment collaborators may be nil; their endpoints
// then answer 404.
func New(assistant Assistant, orders OrderReader, cards CardPayments, redirects RedirectPayments, logger *slog.Logger) *Handler {
	return &Handler{
		assistant: assistant,
		orders:    orders,
		cards:     cards,
		redirects: redirects,
		validate:  validation.New(),
		logger:    logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat", h.handleChat)

	mux.HandleFunc("POST /payments/stripe-intent", h.handleStripeIntent)
	mux.HandleFunc("POST /payments/sslcommerz-initiate", h.handleSSLCommerzInitiate)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// chatResponse is the POST /chat body sent back to the frontend. The
// session ID is echoed (or minted) so the next turn can continue the
// conversation.
type chatResponse struct {
	Success   bool   `json:"success"`
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// handleChat runs one assistant turn. Session resolution order: the
// Chat-Session header, then the body's session_id, then a fresh UUID.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req validation.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := validation.Check(h.validate, req); err != nil {
		h.writeError(w, err)
		return
	}

	sessionID, err := parseChatSessionHeader(r.Header.Get("Chat-Session"))
	if err != nil {
		h.writeError(w, model.NewValidationError("Chat-Session", err.Error()))
		return
	}
	if sessionID == "" {
		sessionID = req.SessionID
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := h.assistant.ProcessQuery(r.Context(), sessionID, req.CustomerQuery)

	h.writeJSON(w, http.StatusOK, chatResponse{
		Success:   result.Success,
		Reply:     result.Reply,
		SessionID: sessionID,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStripeIntent creates a card payment intent for an existing order.
func (h *Handler) handleStripeIntent(w http.ResponseWriter, r *http.Request) {
	if h.cards == nil {
		h.writeError(w, model.NewNotFoundError("payment method"))
		return
	}

	order, ok := h.paymentOrder(w, r)
	if !ok {
		return
	}

	secret, err := h.cards.CreateIntent(r.Context(), order.ID, order.Total)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"client_secret": secret})
}

// handleSSLCommerzInitiate opens a hosted-checkout session for an
// existing order.
func (h *Handler) handleSSLCommerzInitiate(w http.ResponseWriter, r *http.Request) {
	if h.redirects == nil {
		h.writeError(w, model.NewNotFoundError("payment method"))
		return
	}

	order, ok := h.paymentOrder(w, r)
	if !ok {
		return
	}

	url, err := h.redirects.InitiateRedirect(r.Context(), order.ID, order.Total,
		order.BillingName, order.BillingEmail)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"payment_url": url})
}

// paymentOrder decodes and validates a payment request body and loads the
// order it names. On failure the error response is already written.
func (h *Handler) paymentOrder(w http.ResponseWriter, r *http.Request) (*model.OrderInfo, bool) {
	var req validation.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return nil, false
	}
	if err := validation.Check(h.validate, req); err != nil {
		h.writeError(w, err)
		return nil, false
	}

	order, err := h.orders.GetOrder(r.Context(), req.OrderID)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return order, true
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	// Limit request body size to prevent DoS
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

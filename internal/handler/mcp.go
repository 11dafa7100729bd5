// MCP transport handler for the shopping assistant using the official MCP
// Go SDK. Exposes the assistant's operations as MCP tools so agent
// frontends can call them without the REST surface.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"elevate-agent/internal/model"
)

// === MCP Tool Input/Output Types ===

// ProcessQueryInput is the input schema for the process_query tool.
type ProcessQueryInput struct {
	CustomerQuery string `json:"customer_query" jsonschema:"the customer's message,required"`
	SessionID     string `json:"session_id,omitempty" jsonschema:"session ID to continue a conversation"`
}

// ProcessQueryOutput is the process_query tool result.
type ProcessQueryOutput struct {
	Success   bool   `json:"success"`
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// SearchProductsInput is the input schema for the search_products tool.
type SearchProductsInput struct {
	Query string `json:"query" jsonschema:"product search query,required"`
}

// OrderStatusInput is the input schema for the order_status tool.
type OrderStatusInput struct {
	Query string `json:"query" jsonschema:"query naming an order ID and the order's email,required"`
}

// ReplyOutput is the result shape for tools that answer with one string.
type ReplyOutput struct {
	Reply string `json:"reply"`
}

// SuggestSimilarInput is the input schema for suggest_similar_products.
type SuggestSimilarInput struct {
	ProductName string `json:"product_name" jsonschema:"product to find alternatives for,required"`
	Category    string `json:"category,omitempty" jsonschema:"product category to bias suggestions"`
}

// SuggestSimilarOutput is the suggest_similar_products tool result.
type SuggestSimilarOutput struct {
	Suggestions []model.Product `json:"suggestions"`
}

// NewMCPServer creates an MCP server with the assistant tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "elevate-agent",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Elevate Store shopping assistant. " +
				"Use these tools to answer customers, search products, check orders, and suggest alternatives.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_query",
		Description: "Answer a customer message end to end: classifies the intent and handles product questions, order creation, order status, and refunds.",
	}, h.mcpProcessQuery)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_products",
		Description: "Search the catalog and describe matching products with live price and stock.",
	}, h.mcpSearchProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "order_status",
		Description: "Report an order's status. The query must contain the order ID and the email used on the order.",
	}, h.mcpOrderStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_similar_products",
		Description: "Suggest catalog products similar to a named product.",
	}, h.mcpSuggestSimilar)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpProcessQuery(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ProcessQueryInput,
) (*mcp.CallToolResult, *ProcessQueryOutput, error) {
	if input.CustomerQuery == "" {
		return nil, nil, fmt.Errorf("customer_query is required")
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := h.assistant.ProcessQuery(ctx, sessionID, input.CustomerQuery)
	return nil, &ProcessQueryOutput{
		Success:   result.Success,
		Reply:     result.Reply,
		SessionID: sessionID,
	}, nil
}

func (h *Handler) mcpSearchProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchProductsInput,
) (*mcp.CallToolResult, *ReplyOutput, error) {
	if input.Query == "" {
		return nil, nil, fmt.Errorf("query is required")
	}
	return nil, &ReplyOutput{Reply: h.assistant.Search(ctx, input.Query)}, nil
}

func (h *Handler) mcpOrderStatus(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input OrderStatusInput,
) (*mcp.CallToolResult, *ReplyOutput, error) {
	if input.Query == "" {
		return nil, nil, fmt.Errorf("query is required")
	}
	return nil, &ReplyOutput{Reply: h.assistant.OrderStatus(ctx, input.Query)}, nil
}

func (h *Handler) mcpSuggestSimilar(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SuggestSimilarInput,
) (*mcp.CallToolResult, *SuggestSimilarOutput, error) {
	if input.ProductName == "" {
		return nil, nil, fmt.Errorf("product_name is required")
	}
	suggestions := h.assistant.SuggestSimilar(ctx, input.ProductName, input.Category)
	return nil, &SuggestSimilarOutput{Suggestions: suggestions}, nil
}

package handler

import (
	"context"
	"testing"

	"elevate-agent/internal/model"
)

func TestMCPProcessQuery(t *testing.T) {
	assistant := &mockAssistant{ProcessQueryFunc: func(ctx context.Context, sessionID, query string) model.QueryResult {
		if sessionID == "" {
			t.Error("session must be minted before dispatch")
		}
		return model.QueryResult{Success: true, Reply: "done"}
	}}
	h := New(assistant, nil, nil, nil, testLogger())

	_, out, err := h.mcpProcessQuery(context.Background(), nil, ProcessQueryInput{CustomerQuery: "hello"})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !out.Success || out.Reply != "done" || out.SessionID == "" {
		t.Errorf("output = %+v", out)
	}
}

func TestMCPProcessQueryKeepsSession(t *testing.T) {
	assistant := &mockAssistant{ProcessQueryFunc: func(ctx context.Context, sessionID, query string) model.QueryResult {
		return model.QueryResult{Success: true, Reply: "ok"}
	}}
	h := New(assistant, nil, nil, nil, testLogger())

	_, out, err := h.mcpProcessQuery(context.Background(), nil,
		ProcessQueryInput{CustomerQuery: "hello", SessionID: "keep-me"})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if out.SessionID != "keep-me" {
		t.Errorf("session = %q", out.SessionID)
	}
}

func TestMCPProcessQueryRequiresQuery(t *testing.T) {
	h := New(&mockAssistant{}, nil, nil, nil, testLogger())
	if _, _, err := h.mcpProcessQuery(context.Background(), nil, ProcessQueryInput{}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestMCPSearchProducts(t *testing.T) {
	assistant := &mockAssistant{SearchFunc: func(ctx context.Context, query string) string {
		return "found the northstar"
	}}
	h := New(assistant, nil, nil, nil, testLogger())

	_, out, err := h.mcpSearchProducts(context.Background(), nil, SearchProductsInput{Query: "northstar"})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if out.Reply != "found the northstar" {
		t.Errorf("reply = %q", out.Reply)
	}
}

func TestMCPOrderStatus(t *testing.T) {
	assistant := &mockAssistant{OrderStatusFunc: func(ctx context.Context, query string) string {
		return "Order ID: 312"
	}}
	h := New(assistant, nil, nil, nil, testLogger())

	_, out, err := h.mcpOrderStatus(context.Background(), nil,
		OrderStatusInput{Query: "order 312 rahim@example.com"})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if out.Reply != "Order ID: 312" {
		t.Errorf("reply = %q", out.Reply)
	}
}

func TestMCPSuggestSimilar(t *testing.T) {
	assistant := &mockAssistant{SuggestSimilarFunc: func(ctx context.Context, productName, category string) []model.Product {
		return []model.Product{{Name: "Floral Dress", Slug: "floral-dress", Category: category}}
	}}
	h := New(assistant, nil, nil, nil, testLogger())

	_, out, err := h.mcpSuggestSimilar(context.Background(), nil,
		SuggestSimilarInput{ProductName: "Summer Dress", Category: "Dress"})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(out.Suggestions) != 1 || out.Suggestions[0].Slug != "floral-dress" {
		t.Errorf("suggestions = %+v", out.Suggestions)
	}
}

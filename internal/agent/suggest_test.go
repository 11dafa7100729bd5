package agent

import (
	"context"
	"errors"
	"testing"

	"elevate-agent/internal/llm"
	"elevate-agent/internal/model"
)

func suggestAgent(t *testing.T, completer *mockLLM) *Agent {
	t.Helper()
	store := &mockStore{ListProductsFunc: func(ctx context.Context) ([]model.Product, error) {
		return testCatalog(), nil
	}}
	return newTestAgent(t, store, completer)
}

func TestSuggestSimilarParsesJSON(t *testing.T) {
	completer := &mockLLM{CompleteFunc: func(ctx context.Context, prompt string) (*llm.Response, error) {
		return textResponse("```json\n" +
			`[{"name": "Floral Dress", "slug": "floral-dress", "category": "Dress"}]` +
			"\n```"), nil
	}}
	a := suggestAgent(t, completer)

	got := a.SuggestSimilar(context.Background(), "Summer Dress", "Dress")
	if len(got) != 1 || got[0].Slug != "floral-dress" {
		t.Fatalf("suggestions = %+v", got)
	}
}

func TestSuggestSimilarSkipsIncompleteEntries(t *testing.T) {
	completer := &mockLLM{CompleteFunc: func(ctx context.Context, prompt string) (*llm.Response, error) {
		return textResponse(`[{"name": "Floral Dress", "slug": "floral-dress", "category": "Dress"}, {"name": "", "slug": "x"}]`), nil
	}}
	a := suggestAgent(t, completer)

	got := a.SuggestSimilar(context.Background(), "Summer Dress", "Dress")
	if len(got) != 1 {
		t.Fatalf("suggestions = %+v", got)
	}
}

func TestSuggestSimilarNumberedListFallback(t *testing.T) {
	completer := &mockLLM{CompleteFunc: func(ctx context.Context, prompt string) (*llm.Response, error) {
		return textResponse("Here are some options\n" +
			"1. Floral Dress (slug: floral-dress, category: Dress)\n" +
			"2. Desk Mat\n" +
			"not a list line"), nil
	}}
	a := suggestAgent(t, completer)

	got := a.SuggestSimilar(context.Background(), "Summer Dress", "Dress")
	if len(got) != 2 {
		t.Fatalf("suggestions = %+v", got)
	}
	if got[0].Slug != "floral-dress" {
		t.Errorf("first slug = %q", got[0].Slug)
	}
	if got[1].Slug != "desk-mat" {
		t.Errorf("derived slug = %q", got[1].Slug)
	}
	if got[1].Category != "Dress" {
		t.Errorf("fallback category = %q", got[1].Category)
	}
}

func TestSuggestSimilarModelFailure(t *testing.T) {
	completer := &mockLLM{CompleteFunc: func(ctx context.Context, prompt string) (*llm.Response, error) {
		return nil, errors.New("gemini down")
	}}
	a := suggestAgent(t, completer)

	got := a.SuggestSimilar(context.Background(), "Summer Dress", "Dress")
	if got == nil || len(got) != 0 {
		t.Fatalf("suggestions = %+v, want empty non-nil", got)
	}
}

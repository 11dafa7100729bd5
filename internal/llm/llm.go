// Package llm provides the text-completion collaborator interface and the
// Gemini-backed implementation used by the shopping assistant.
package llm

import (
	"context"
	"strings"
)

// Completer is the capability the assistant needs from a language model:
// one prompt in, one response envelope out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*Response, error)
}

// Response mirrors the generateContent response envelope. The assistant only
// ever reads the first candidate's text; everything else is tolerated but
// ignored.
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer in a Response.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Content holds the parts of a candidate answer.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single text fragment of a candidate answer.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Text returns the joined text of the first candidate, trimmed.
// Empty or malformed envelopes yield "" rather than an error so callers
// can degrade to their own fallback messages.
func (r *Response) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

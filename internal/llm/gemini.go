package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"elevate-agent/internal/model"
)

// defaultBaseURL is the Gemini REST API root.
const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiConfig holds Gemini client configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string        // defaults to the public Gemini endpoint
	Timeout time.Duration // defaults to 30s

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Gemini calls the generateContent endpoint for a fixed model.
type Gemini struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGemini creates a Gemini completer with the given configuration.
func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Gemini{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// generateRequest is the generateContent request payload.
type generateRequest struct {
	Contents []Content `json:"contents"`
}

// geminiError is the error body returned on non-2xx responses.
type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends the prompt as a single user turn and returns the decoded
// response envelope. Empty envelopes are returned as-is; callers use
// Response.Text() and fall back on "".
func (g *Gemini) Complete(ctx context.Context, prompt string) (*Response, error) {
	payload := generateRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, model.NewUpstreamError("gemini", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr geminiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, model.NewUpstreamError("gemini",
				fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error.Message))
		}
		return nil, model.NewUpstreamError("gemini", fmt.Errorf("status %d", resp.StatusCode))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}
	return &out, nil
}

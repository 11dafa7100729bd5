package woocommerce

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
	"elevate-agent/internal/transport"
)

// restAPIPath is the base path for WooCommerce REST API v3 endpoints.
// Must include /wp-json prefix for proper routing.
const restAPIPath = "/wp-json/wc/v3"

// userAgent identifies this client to upstream servers.
// Required: the store's CDN/WAF rate-limits requests without User-Agent.
const userAgent = "ElevateAgent/1.0"

// catalogPageSize is how many products one catalog listing request asks for.
// The store carries well under this many products, so pagination is a single
// page in practice.
const catalogPageSize = 100

// Config holds WooCommerce client configuration.
type Config struct {
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string

	// HTTPClient overrides the default Chrome-fingerprint client, mainly
	// for tests against httptest servers.
	HTTPClient *http.Client
}

// Client talks to a WooCommerce store over the REST API v3.
// Unlike the Store API, v3 authenticates with consumer key/secret Basic Auth
// and needs no nonce or cart token handling.
type Client struct {
	httpClient     *http.Client
	storeURL       string
	consumerKey    string
	consumerSecret string
}

// New creates a WooCommerce client with the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("store URL is required")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" {
		return nil, fmt.Errorf("API credentials are required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// Chrome TLS fingerprint transport avoids JA3-based rate limiting.
		// See internal/transport for rationale.
		httpClient = &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport.NewChromeTransport(30 * time.Second),
		}
	}

	return &Client{
		httpClient:     httpClient,
		storeURL:       strings.TrimSuffix(cfg.StoreURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
	}, nil
}

// StoreURL returns the configured store base URL without a trailing slash.
func (c *Client) StoreURL() string {
	return c.storeURL
}

// ListProducts fetches the published catalog, flattened for matching.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	path := fmt.Sprintf("/products?per_page=%d&status=publish", catalogPageSize)
	var raw []wooProduct
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(raw))
	for _, p := range raw {
		products = append(products, toProduct(p))
	}
	return products, nil
}

// GetProductDetail fetches live pricing and stock for a product by slug.
func (c *Client) GetProductDetail(ctx context.Context, slug string) (*model.ProductDetail, error) {
	raw, err := c.getProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	detail := toProductDetail(*raw, c.storeURL)
	return &detail, nil
}

// GetProductIDBySlug resolves a slug to the storefront's numeric product ID.
func (c *Client) GetProductIDBySlug(ctx context.Context, slug string) (int, error) {
	raw, err := c.getProductBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return raw.ID, nil
}

func (c *Client) getProductBySlug(ctx context.Context, slug string) (*wooProduct, error) {
	var raw []wooProduct
	if err := c.do(ctx, http.MethodGet, "/products?slug="+slug, nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, model.NewNotFoundError("product")
	}
	return &raw[0], nil
}

// GetOrder fetches a single order by numeric ID.
func (c *Client) GetOrder(ctx context.Context, orderID int) (*model.OrderInfo, error) {
	var raw wooOrder
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &raw); err != nil {
		return nil, err
	}
	info := toOrderInfo(raw)
	return &info, nil
}

// CreateOrder places an unpaid cash-on-delivery order for the submission.
func (c *Client) CreateOrder(ctx context.Context, sub model.OrderSubmission) (*model.CreatedOrder, error) {
	payload := buildOrderPayload(sub)
	var raw wooOrder
	if err := c.do(ctx, http.MethodPost, "/orders", payload, &raw); err != nil {
		return nil, err
	}
	return &model.CreatedOrder{ID: raw.ID, Total: raw.Total}, nil
}

// MarkOrderPaid transitions an order to processing with set_paid, used after
// a gateway confirms payment out of band.
func (c *Client) MarkOrderPaid(ctx context.Context, orderID int) error {
	payload := statusPayload{Status: "processing", SetPaid: true}
	var raw wooOrder
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), payload, &raw)
}

// do executes a REST API v3 request and decodes the JSON response into out.
// Path is relative to the v3 root (e.g. "/orders/42").
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.storeURL+restAPIPath+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError("WooCommerce", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.parseErrorResponse(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// parseErrorResponse converts a WooCommerce error body to an APIError.
func (c *Client) parseErrorResponse(statusCode int, body []byte) error {
	var wcErr wooError
	json.Unmarshal(body, &wcErr) // Best effort parse

	switch statusCode {
	case 404:
		return model.NewNotFoundError("order")
	case 400:
		msg := wcErr.Message
		if msg == "" {
			msg = "invalid request"
		}
		return model.NewValidationError("request", msg)
	default:
		return model.NewUpstreamError("WooCommerce",
			fmt.Errorf("status %d: %s - %s", statusCode, wcErr.Code, wcErr.Message))
	}
}

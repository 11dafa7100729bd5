package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"elevate-agent/internal/model"
)

// SSLCommerz gateway endpoints. Sandbox and live differ only by host.
const (
	sslcommerzSandboxURL = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	sslcommerzLiveURL    = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"
)

// SSLCommerzConfig holds SSLCommerz session initiation configuration.
type SSLCommerzConfig struct {
	StoreID       string
	StorePassword string
	Sandbox       bool

	// Redirect targets the gateway sends the customer back to.
	SuccessURL string
	FailURL    string
	CancelURL  string

	// Endpoint overrides the gateway URL, mainly for tests.
	Endpoint string

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// SSLCommerzClient initiates hosted-checkout payment sessions.
type SSLCommerzClient struct {
	cfg        SSLCommerzConfig
	endpoint   string
	httpClient *http.Client
}

// NewSSLCommerz creates an SSLCommerz client from store credentials.
func NewSSLCommerz(cfg SSLCommerzConfig) (*SSLCommerzClient, error) {
	if cfg.StoreID == "" || cfg.StorePassword == "" {
		return nil, fmt.Errorf("sslcommerz store credentials are required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = sslcommerzLiveURL
		if cfg.Sandbox {
			endpoint = sslcommerzSandboxURL
		}
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &SSLCommerzClient{cfg: cfg, endpoint: endpoint, httpClient: httpClient}, nil
}

// sessionResponse is the subset of the initiation response we act on.
type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// InitiateRedirect opens a payment session for the order and returns the
// hosted gateway URL to redirect the customer to. The transaction ID embeds
// the order ID plus a random suffix so retried payments never collide.
func (c *SSLCommerzClient) InitiateRedirect(ctx context.Context, orderID int, total, customerName, customerEmail string) (string, error) {
	tranID := fmt.Sprintf("elevate_%d_%s", orderID, uuid.NewString())

	form := url.Values{}
	form.Set("store_id", c.cfg.StoreID)
	form.Set("store_passwd", c.cfg.StorePassword)
	form.Set("total_amount", total)
	form.Set("currency", "BDT")
	form.Set("tran_id", tranID)
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("fail_url", c.cfg.FailURL)
	form.Set("cancel_url", c.cfg.CancelURL)
	form.Set("cus_name", customerName)
	form.Set("cus_email", customerEmail)
	// The gateway requires the full customer/product schema even for
	// digital-style checkouts. Unknown fields get placeholders.
	form.Set("cus_add1", ".")
	form.Set("cus_city", ".")
	form.Set("cus_country", "Bangladesh")
	form.Set("cus_phone", ".")
	form.Set("shipping_method", "NO")
	form.Set("product_name", fmt.Sprintf("Order #%d", orderID))
	form.Set("product_category", "General")
	form.Set("product_profile", "general")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", model.NewUpstreamError("SSLCommerz", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading session response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", model.NewUpstreamError("SSLCommerz",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	var session sessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("parsing session response: %w", err)
	}
	if session.Status != "SUCCESS" || session.GatewayPageURL == "" {
		reason := session.FailedReason
		if reason == "" {
			reason = "gateway declined the session"
		}
		return "", model.NewPaymentError(reason)
	}
	return session.GatewayPageURL, nil
}

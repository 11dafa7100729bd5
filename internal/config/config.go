// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// defaultGeminiModel is used when the merchant config doesn't pin one.
const defaultGeminiModel = "gemini-1.5-flash"

// defaultRefundPolicy backs the refund intent when the merchant hasn't
// written their own policy text.
const defaultRefundPolicy = "30-day money-back guarantee on all products."

// Config holds all service configuration.
// Environment determines whether secrets load from env vars (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	MerchantID string

	// Merchant-specific configuration (loaded from secrets)
	Merchant MerchantConfig
}

// MerchantConfig contains merchant-specific settings.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type MerchantConfig struct {
	StoreURL       string `json:"store_url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	MerchantName   string `json:"merchant_name,omitempty"`
	RefundPolicy   string `json:"refund_policy,omitempty"`

	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model,omitempty"`

	// Payment gateways. Either may be left unset to disable it.
	StripeSecretKey string            `json:"stripe_secret_key,omitempty"`
	SSLCommerz      *SSLCommerzConfig `json:"sslcommerz,omitempty"`
}

// SSLCommerzConfig holds the hosted-checkout gateway credentials.
type SSLCommerzConfig struct {
	StoreID       string `json:"store_id"`
	StorePassword string `json:"store_password"`
	Sandbox       bool   `json:"sandbox,omitempty"`
	SuccessURL    string `json:"success_url,omitempty"`
	FailURL       string `json:"fail_url,omitempty"`
	CancelURL     string `json:"cancel_url,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the JSON file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		MerchantID:  os.Getenv("MERCHANT_ID"),
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.MerchantID == "" {
			return nil, fmt.Errorf("MERCHANT_ID required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading merchant config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port        string         `json:"port"`
		Environment string         `json:"environment"`
		LogLevel    string         `json:"log_level"`
		MerchantID  string         `json:"merchant_id"`
		Merchant    MerchantConfig `json:"merchant"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:        withDefault(fileConfig.Port, "8080"),
		Environment: withDefault(fileConfig.Environment, "development"),
		LogLevel:    withDefault(fileConfig.LogLevel, "info"),
		MerchantID:  fileConfig.MerchantID,
		Merchant:    fileConfig.Merchant,
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches merchant config from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{merchant_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.MerchantID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Merchant); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	return nil
}

// loadFromEnv reads merchant config from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.Merchant = MerchantConfig{
		StoreURL:        os.Getenv("MERCHANT_STORE_URL"),
		ConsumerKey:     os.Getenv("MERCHANT_CONSUMER_KEY"),
		ConsumerSecret:  os.Getenv("MERCHANT_CONSUMER_SECRET"),
		MerchantName:    os.Getenv("MERCHANT_NAME"),
		RefundPolicy:    os.Getenv("MERCHANT_REFUND_POLICY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
	}

	// Parse SSLCommerz JSON if provided
	if gatewayJSON := os.Getenv("SSLCOMMERZ_CONFIG"); gatewayJSON != "" {
		var gw SSLCommerzConfig
		if err := json.Unmarshal([]byte(gatewayJSON), &gw); err != nil {
			return fmt.Errorf("parsing SSLCOMMERZ_CONFIG JSON: %w", err)
		}
		c.Merchant.SSLCommerz = &gw
	}
	return nil
}

// applyDefaults fills optional merchant fields the loaders left empty.
func (c *Config) applyDefaults() {
	if c.Merchant.GeminiModel == "" {
		c.Merchant.GeminiModel = defaultGeminiModel
	}
	if c.Merchant.RefundPolicy == "" {
		c.Merchant.RefundPolicy = defaultRefundPolicy
	}
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Merchant.StoreURL == "" {
		return fmt.Errorf("store_url is required")
	}
	if c.Merchant.ConsumerKey == "" {
		return fmt.Errorf("consumer_key is required")
	}
	if c.Merchant.ConsumerSecret == "" {
		return fmt.Errorf("consumer_secret is required")
	}
	if c.Merchant.GeminiAPIKey == "" {
		return fmt.Errorf("gemini_api_key is required")
	}
	if _, err := url.Parse(c.Merchant.StoreURL); err != nil {
		return fmt.Errorf("invalid store_url: %w", err)
	}
	if c.Merchant.SSLCommerz != nil {
		if c.Merchant.SSLCommerz.StoreID == "" || c.Merchant.SSLCommerz.StorePassword == "" {
			return fmt.Errorf("sslcommerz store_id and store_password are required when sslcommerz is configured")
		}
	}
	return nil
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

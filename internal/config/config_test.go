package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// configEnvVars lists every variable Load reads, so tests can isolate
// themselves from the ambient environment.
var configEnvVars = []string{
	"CONFIG_FILE", "PORT", "ENVIRONMENT", "LOG_LEVEL",
	"GCP_PROJECT", "MERCHANT_ID",
	"MERCHANT_STORE_URL", "MERCHANT_CONSUMER_KEY", "MERCHANT_CONSUMER_SECRET",
	"MERCHANT_NAME", "MERCHANT_REFUND_POLICY",
	"GEMINI_API_KEY", "GEMINI_MODEL",
	"STRIPE_SECRET_KEY", "SSLCOMMERZ_CONFIG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if val, ok := os.LookupEnv(key); ok {
			t.Setenv(key, val) // registers restore
			os.Unsetenv(key)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MERCHANT_STORE_URL", "https://shop.example.com")
	t.Setenv("MERCHANT_CONSUMER_KEY", "ck_test")
	t.Setenv("MERCHANT_CONSUMER_SECRET", "cs_test")
	t.Setenv("GEMINI_API_KEY", "gk_test")
	t.Setenv("MERCHANT_NAME", "Elevate Store")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.Merchant.StoreURL != "https://shop.example.com" {
		t.Errorf("StoreURL = %q", cfg.Merchant.StoreURL)
	}
	if cfg.Merchant.MerchantName != "Elevate Store" {
		t.Errorf("MerchantName = %q", cfg.Merchant.MerchantName)
	}
	if cfg.Merchant.GeminiModel != defaultGeminiModel {
		t.Errorf("GeminiModel = %q, want default", cfg.Merchant.GeminiModel)
	}
	if cfg.Merchant.RefundPolicy != defaultRefundPolicy {
		t.Errorf("RefundPolicy = %q, want default", cfg.Merchant.RefundPolicy)
	}
	if cfg.Merchant.SSLCommerz != nil {
		t.Error("SSLCommerz should be nil when not configured")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
		want string
	}{
		{"missing store url", "MERCHANT_STORE_URL", "store_url"},
		{"missing consumer key", "MERCHANT_CONSUMER_KEY", "consumer_key"},
		{"missing consumer secret", "MERCHANT_CONSUMER_SECRET", "consumer_secret"},
		{"missing gemini key", "GEMINI_API_KEY", "gemini_api_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			required := map[string]string{
				"MERCHANT_STORE_URL":       "https://shop.example.com",
				"MERCHANT_CONSUMER_KEY":    "ck_test",
				"MERCHANT_CONSUMER_SECRET": "cs_test",
				"GEMINI_API_KEY":           "gk_test",
			}
			for key, val := range required {
				if key != tt.omit {
					t.Setenv(key, val)
				}
			}

			_, err := Load(context.Background())
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadSSLCommerzFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MERCHANT_STORE_URL", "https://shop.example.com")
	t.Setenv("MERCHANT_CONSUMER_KEY", "ck_test")
	t.Setenv("MERCHANT_CONSUMER_SECRET", "cs_test")
	t.Setenv("GEMINI_API_KEY", "gk_test")
	t.Setenv("SSLCOMMERZ_CONFIG", `{"store_id": "testbox", "store_password": "qwerty", "sandbox": true}`)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	gw := cfg.Merchant.SSLCommerz
	if gw == nil {
		t.Fatal("SSLCommerz not loaded")
	}
	if gw.StoreID != "testbox" || !gw.Sandbox {
		t.Errorf("SSLCommerz = %+v", gw)
	}
}

func TestLoadSSLCommerzMissingCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("MERCHANT_STORE_URL", "https://shop.example.com")
	t.Setenv("MERCHANT_CONSUMER_KEY", "ck_test")
	t.Setenv("MERCHANT_CONSUMER_SECRET", "cs_test")
	t.Setenv("GEMINI_API_KEY", "gk_test")
	t.Setenv("SSLCOMMERZ_CONFIG", `{"store_id": "testbox"}`)

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load() succeeded with incomplete sslcommerz config")
	}
}

func TestLoadProductionRequiresGCPProject(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("MERCHANT_ID", "merchant-1")

	_, err := Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "GCP_PROJECT") {
		t.Errorf("error = %v, want GCP_PROJECT requirement", err)
	}
}

func TestLoadProductionRequiresMerchantID(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GCP_PROJECT", "my-project")

	_, err := Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "MERCHANT_ID") {
		t.Errorf("error = %v, want MERCHANT_ID requirement", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	content := `{
		"port": "9090",
		"log_level": "debug",
		"merchant_id": "local-shop",
		"merchant": {
			"store_url": "https://shop.example.com",
			"consumer_key": "ck_file",
			"consumer_secret": "cs_file",
			"gemini_api_key": "gk_file",
			"gemini_model": "gemini-2.0-flash",
			"refund_policy": "14-day returns.",
			"stripe_secret_key": "sk_test_abc",
			"sslcommerz": {"store_id": "testbox", "store_password": "qwerty", "sandbox": true}
		}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" || cfg.LogLevel != "debug" {
		t.Errorf("server settings = %q/%q", cfg.Port, cfg.LogLevel)
	}
	if cfg.MerchantID != "local-shop" {
		t.Errorf("MerchantID = %q", cfg.MerchantID)
	}
	if cfg.Merchant.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q, file value must win over default", cfg.Merchant.GeminiModel)
	}
	if cfg.Merchant.RefundPolicy != "14-day returns." {
		t.Errorf("RefundPolicy = %q", cfg.Merchant.RefundPolicy)
	}
	if cfg.Merchant.SSLCommerz == nil || cfg.Merchant.SSLCommerz.StoreID != "testbox" {
		t.Errorf("SSLCommerz = %+v", cfg.Merchant.SSLCommerz)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("Load() succeeded with invalid file")
	}
}

func TestWithDefault(t *testing.T) {
	if got := withDefault("", "fallback"); got != "fallback" {
		t.Errorf("withDefault = %q", got)
	}
	if got := withDefault("set", "fallback"); got != "set" {
		t.Errorf("withDefault = %q", got)
	}
}

// Command server runs the conversational shopping assistant API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elevate-agent/internal/agent"
	"elevate-agent/internal/config"
	"elevate-agent/internal/handler"
	"elevate-agent/internal/llm"
	"elevate-agent/internal/middleware"
	"elevate-agent/internal/payments"
	"elevate-agent/internal/woocommerce"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := initLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting server",
		slog.String("port", cfg.Port),
		slog.String("environment", cfg.Environment),
		slog.String("merchant", cfg.MerchantID),
	)

	store, err := woocommerce.New(woocommerce.Config{
		StoreURL:       cfg.Merchant.StoreURL,
		ConsumerKey:    cfg.Merchant.ConsumerKey,
		ConsumerSecret: cfg.Merchant.ConsumerSecret,
	})
	if err != nil {
		return fmt.Errorf("creating storefront client: %w", err)
	}

	completer, err := llm.NewGemini(llm.GeminiConfig{
		APIKey: cfg.Merchant.GeminiAPIKey,
		Model:  cfg.Merchant.GeminiModel,
	})
	if err != nil {
		return fmt.Errorf("creating gemini client: %w", err)
	}

	// Payment gateways are optional. Missing credentials disable the
	// gateway rather than failing startup.
	var cards *payments.StripeClient
	if cfg.Merchant.StripeSecretKey != "" {
		cards, err = payments.NewStripe(cfg.Merchant.StripeSecretKey)
		if err != nil {
			return fmt.Errorf("creating stripe client: %w", err)
		}
		logger.Info("stripe payments enabled")
	}

	var redirects *payments.SSLCommerzClient
	if gw := cfg.Merchant.SSLCommerz; gw != nil {
		redirects, err = payments.NewSSLCommerz(payments.SSLCommerzConfig{
			StoreID:       gw.StoreID,
			StorePassword: gw.StorePassword,
			Sandbox:       gw.Sandbox,
			SuccessURL:    gw.SuccessURL,
			FailURL:       gw.FailURL,
			CancelURL:     gw.CancelURL,
		})
		if err != nil {
			return fmt.Errorf("creating sslcommerz client: %w", err)
		}
		logger.Info("sslcommerz payments enabled", slog.Bool("sandbox", gw.Sandbox))
	}

	assistantCfg := agent.Config{
		Store:        store,
		LLM:          completer,
		RefundPolicy: cfg.Merchant.RefundPolicy,
		StoreName:    cfg.Merchant.MerchantName,
		Logger:       logger,
	}
	if cards != nil {
		assistantCfg.Cards = cards
	}
	if redirects != nil {
		assistantCfg.Redirects = redirects
	}
	assistant, err := agent.New(assistantCfg)
	if err != nil {
		return fmt.Errorf("creating assistant: %w", err)
	}

	var cardGateway handler.CardPayments
	if cards != nil {
		cardGateway = cards
	}
	var redirectGateway handler.RedirectPayments
	if redirects != nil {
		redirectGateway = redirects
	}
	h := handler.New(assistant, store, cardGateway, redirectGateway, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           chain(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/interrupt
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// initLogger builds the process logger. Production gets JSON for log
// aggregation; development gets text. Debug level adds source locations.
func initLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var h slog.Handler
	if cfg.Environment == "production" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

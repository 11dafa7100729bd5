// Package payments integrates the card and redirect payment gateways used
// at checkout. Orders are created unpaid on the storefront first; these
// clients collect payment against the resulting order ID.
package payments

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"

	"elevate-agent/internal/model"
)

// StripeClient creates payment intents for card payments.
type StripeClient struct {
	api      *stripeclient.API
	currency string
}

// NewStripe creates a Stripe client from a secret key.
func NewStripe(secretKey string) (*StripeClient, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	api := &stripeclient.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, currency: string(stripe.CurrencyBDT)}, nil
}

// CreateIntent creates a payment intent for the order total and returns the
// client secret the frontend needs to confirm the card payment.
// Total is the storefront's decimal string; Stripe wants minor units.
func (s *StripeClient) CreateIntent(ctx context.Context, orderID int, total string) (string, error) {
	amount, err := toMinorUnits(total)
	if err != nil {
		return "", model.NewPaymentError(fmt.Sprintf("invalid order total %q", total))
	}

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", strconv.Itoa(orderID))

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", model.NewUpstreamError("Stripe", err)
	}
	return intent.ClientSecret, nil
}

// toMinorUnits converts a decimal amount string to integer minor units.
func toMinorUnits(total string) (int64, error) {
	f, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return int64(math.Round(f * 100)), nil
}

package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

type stripeIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeProvider captures payment through Stripe PaymentIntents with
// automatic confirmation.
type StripeProvider struct {
	intents stripeIntentAPI
}

// NewStripeProvider builds a provider from a secret API key.
func NewStripeProvider(apiKey string) (*StripeProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("stripe: api key is required")
	}
	sc := client.New(apiKey, nil)
	return &StripeProvider{intents: sc.PaymentIntents}, nil
}

// Capture creates and confirms a PaymentIntent for the order total.
func (p *StripeProvider) Capture(ctx context.Context, in CaptureInput) (CaptureResult, error) {
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(in.AmountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(in.Description),
		Confirm:     stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String(string(stripe.PaymentIntentAutomaticPaymentMethodsAllowRedirectsNever)),
		},
	}
	params.Context = ctx
	if in.UserID != "" {
		params.AddMetadata("user_id", in.UserID)
	}
	intent, err := p.intents.New(params)
	if err != nil {
		return CaptureResult{}, err
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return CaptureResult{}, errors.New("stripe: payment intent not captured: " + string(intent.Status))
	}
	return CaptureResult{Reference: intent.ID}, nil
}

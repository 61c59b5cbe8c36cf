package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/domain"
)

// StripeProvider creates payment intents through the Stripe API.
type StripeProvider struct {
	api         *client.API
	methodTypes []string
}

// NewStripeProvider builds a provider with its own API client.
func NewStripeProvider(cfg config.PaymentConfig) *StripeProvider {
	var api *client.API
	if cfg.StripeSecretKey != "" {
		api = client.New(cfg.StripeSecretKey, nil)
	}
	methods := cfg.PaymentMethodTypes
	if len(methods) == 0 {
		methods = []string{"card"}
	}
	return &StripeProvider{api: api, methodTypes: methods}
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*domain.PaymentIntent, error) {
	if p.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice(p.methodTypes),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

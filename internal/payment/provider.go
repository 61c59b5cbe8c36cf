package payment

import (
	"context"
	"errors"

	"github.com/spec-kit/laptop-resale/internal/domain"
)

// ErrNotConfigured is returned when no provider credentials were supplied.
var ErrNotConfigured = errors.New("payment provider not configured")

// IntentRequest describes a card payment to be authorized client-side.
type IntentRequest struct {
	// Amount in the currency's minor unit.
	Amount         int64
	Currency       string
	IdempotencyKey string
}

// Provider creates payment intents with a third-party processor.
type Provider interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*domain.PaymentIntent, error)
}

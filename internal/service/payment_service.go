package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/events"
	"github.com/spec-kit/laptop-resale/internal/payment"
	"github.com/spec-kit/laptop-resale/internal/persistence"
	"github.com/spec-kit/laptop-resale/internal/repository"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

// IdempotencyStore remembers client secrets handed out per idempotency key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

// PaymentService creates payment intents and settles bookings once paid.
type PaymentService struct {
	provider   payment.Provider
	cache      IdempotencyStore
	payments   repository.PaymentRepository
	bookings   repository.BookingRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	currency   string
	cacheTTL   time.Duration
}

// PaymentDependencies encapsulates collaborators for the payment service.
type PaymentDependencies struct {
	Provider    payment.Provider
	Idempotency IdempotencyStore
	PaymentRepo repository.PaymentRepository
	BookingRepo repository.BookingRepository
	ProductRepo repository.ProductRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewPaymentService builds the service. Idempotency may be nil.
func NewPaymentService(cfg config.PaymentConfig, deps PaymentDependencies) *PaymentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{
		provider:   deps.Provider,
		cache:      deps.Idempotency,
		payments:   deps.PaymentRepo,
		bookings:   deps.BookingRepo,
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		currency:   currency,
		cacheTTL:   cfg.IdempotencyTTL(),
	}
}

// CreateIntent opens a card payment for price (in major units) and returns its client secret.
// Repeating a request with the same idempotency key returns the first secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64, idempotencyKey string) (string, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return "", apperrors.NewValidationError("price must be a positive number", nil)
	}
	amount := int64(math.Round(price * 100))

	if idempotencyKey != "" && s.cache != nil {
		secret, ok, err := s.cache.Get(ctx, idempotencyKey)
		if err != nil {
			s.logger.Warn("idempotency lookup failed", zap.Error(err))
		} else if ok {
			return secret, nil
		}
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, payment.IntentRequest{
		Amount:         amount,
		Currency:       s.currency,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return "", err
	}

	if idempotencyKey != "" && s.cache != nil {
		if _, err := s.cache.SetNX(ctx, idempotencyKey, intent.ClientSecret, s.cacheTTL); err != nil {
			s.logger.Warn("idempotency store failed", zap.Error(err))
		}
	}
	return intent.ClientSecret, nil
}

// RecordPayment stores the payment and marks the referenced booking and product as paid.
func (s *PaymentService) RecordPayment(ctx context.Context, body domain.Document) (*persistence.InsertResult, error) {
	doc := body.Clone()
	if doc == nil {
		doc = domain.Document{}
	}
	delete(doc, domain.FieldID)
	p := domain.PaymentFromDocument(doc)

	// Reject unusable references before anything is written.
	if p.BookingID != "" {
		if _, err := s.bookings.GetByID(ctx, p.BookingID); err != nil {
			return nil, err
		}
	}
	if p.ProductID != "" {
		if _, err := s.products.Get(ctx, p.ProductID); err != nil {
			return nil, err
		}
	}

	res, err := s.payments.Create(ctx, doc)
	if err != nil {
		return nil, err
	}

	paid := domain.Document{"paid": true, "transactionId": p.TransactionID}
	if p.BookingID != "" {
		if _, err := s.bookings.Update(ctx, p.BookingID, paid); err != nil {
			return nil, err
		}
	}
	if p.ProductID != "" {
		if _, err := s.products.Update(ctx, p.ProductID, paid); err != nil {
			return nil, err
		}
	}

	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventPaymentRecorded,
		ResourceID: res.InsertedID,
		ActorEmail: doc.String("email"),
		Payload: events.PaymentRecordedPayload{
			BookingID:     p.BookingID,
			ProductID:     p.ProductID,
			TransactionID: p.TransactionID,
		},
	})
	return res, nil
}

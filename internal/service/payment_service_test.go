package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/events"
	"github.com/spec-kit/laptop-resale/internal/persistence"
	"github.com/spec-kit/laptop-resale/internal/repository"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

type paymentFixture struct {
	svc      *PaymentService
	store    persistence.Store
	provider *fakeProvider
	cache    *fakeIdempotency
	events   *recorder
}

func newPaymentFixture() *paymentFixture {
	store := persistence.NewMemoryStore()
	provider := &fakeProvider{}
	cache := newFakeIdempotency()
	rec := &recorder{}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventPaymentRecorded, rec.record)

	svc := NewPaymentService(config.PaymentConfig{Currency: "usd"}, PaymentDependencies{
		Provider:    provider,
		Idempotency: cache,
		PaymentRepo: repository.NewPaymentRepository(store),
		BookingRepo: repository.NewBookingRepository(store),
		ProductRepo: repository.NewProductRepository(store),
		Dispatcher:  dispatcher,
	})
	return &paymentFixture{svc: svc, store: store, provider: provider, cache: cache, events: rec}
}

func TestPaymentServiceCreateIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("ConvertsPriceToMinorUnits", func(t *testing.T) {
		f := newPaymentFixture()
		secret, err := f.svc.CreateIntent(ctx, 19.99, "")
		require.NoError(t, err)
		assert.NotEmpty(t, secret)

		require.Len(t, f.provider.requests, 1)
		assert.Equal(t, int64(1999), f.provider.requests[0].Amount)
		assert.Equal(t, "usd", f.provider.requests[0].Currency)
	})

	t.Run("RejectsNonPositivePrice", func(t *testing.T) {
		f := newPaymentFixture()
		for _, price := range []float64{0, -5} {
			_, err := f.svc.CreateIntent(ctx, price, "")
			de := apperrors.ToDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, "VALIDATION_FAILED", de.Code)
		}
		assert.Empty(t, f.provider.requests)
	})

	t.Run("IdempotencyKeyReturnsFirstSecret", func(t *testing.T) {
		f := newPaymentFixture()
		first, err := f.svc.CreateIntent(ctx, 10, "order-1")
		require.NoError(t, err)
		second, err := f.svc.CreateIntent(ctx, 10, "order-1")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		require.Len(t, f.provider.requests, 1)
		assert.Equal(t, "order-1", f.provider.requests[0].IdempotencyKey)
	})

	t.Run("CacheFailureFallsThroughToProvider", func(t *testing.T) {
		f := newPaymentFixture()
		f.cache.failGet = true
		_, err := f.svc.CreateIntent(ctx, 10, "order-2")
		require.NoError(t, err)
		assert.Len(t, f.provider.requests, 1)
	})

	t.Run("ProviderErrorPropagates", func(t *testing.T) {
		f := newPaymentFixture()
		f.provider.err = errors.New("card declined")
		_, err := f.svc.CreateIntent(ctx, 10, "")
		assert.EqualError(t, err, "card declined")
	})
}

func TestPaymentServiceRecordPayment(t *testing.T) {
	ctx := context.Background()
	f := newPaymentFixture()

	booking, err := f.store.Collection(domain.CollectionBookings).InsertOne(ctx, domain.Document{"email": "b@x.com"})
	require.NoError(t, err)
	product, err := f.store.Collection(domain.CollectionProducts).InsertOne(ctx, domain.Document{"name": "ThinkPad"})
	require.NoError(t, err)

	res, err := f.svc.RecordPayment(ctx, domain.Document{
		"email":         "b@x.com",
		"bookingId":     booking.InsertedID,
		"productId":     product.InsertedID,
		"transactionId": "pi_123",
	})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)

	for _, name := range []string{domain.CollectionBookings, domain.CollectionProducts} {
		doc, err := f.store.Collection(name).FindOne(ctx, domain.Filter{"paid": true})
		require.NoError(t, err, name)
		assert.Equal(t, "pi_123", doc["transactionId"], name)
	}
	assert.Equal(t, []events.EventType{events.EventPaymentRecorded}, f.events.types())
}

// objectIDStore rejects ids that are not 24 hex characters, as the Mongo driver does.
type objectIDStore struct {
	*persistence.MemoryStore
}

func (s objectIDStore) Collection(name string) persistence.Collection {
	return objectIDCollection{Collection: s.MemoryStore.Collection(name)}
}

type objectIDCollection struct {
	persistence.Collection
}

func (c objectIDCollection) check(filter domain.Filter) error {
	if id, ok := filter[domain.FieldID].(string); ok && len(id) != 24 {
		return persistence.ErrInvalidID
	}
	return nil
}

func (c objectIDCollection) FindOne(ctx context.Context, filter domain.Filter) (domain.Document, error) {
	if err := c.check(filter); err != nil {
		return nil, err
	}
	return c.Collection.FindOne(ctx, filter)
}

func (c objectIDCollection) UpdateOne(ctx context.Context, filter domain.Filter, set domain.Document) (*persistence.UpdateResult, error) {
	if err := c.check(filter); err != nil {
		return nil, err
	}
	return c.Collection.UpdateOne(ctx, filter, set)
}

func TestPaymentServiceRecordPaymentRejectsBadReferencesBeforeInsert(t *testing.T) {
	ctx := context.Background()
	store := objectIDStore{persistence.NewMemoryStore()}
	svc := NewPaymentService(config.PaymentConfig{}, PaymentDependencies{
		Provider:    &fakeProvider{},
		PaymentRepo: repository.NewPaymentRepository(store),
		BookingRepo: repository.NewBookingRepository(store),
		ProductRepo: repository.NewProductRepository(store),
	})

	for name, body := range map[string]domain.Document{
		"BadBooking": {"bookingId": "not-hex", "transactionId": "pi_1"},
		"BadProduct": {"productId": "not-hex", "transactionId": "pi_2"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.RecordPayment(ctx, body)
			assert.ErrorIs(t, err, persistence.ErrInvalidID)

			payments, err := store.Collection(domain.CollectionPayments).Find(ctx, domain.Filter{})
			require.NoError(t, err)
			assert.Empty(t, payments, "no payment is stored for a rejected reference")
		})
	}
}

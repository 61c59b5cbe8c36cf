package repository

import (
	"context"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/persistence"
)

// PaymentRepository stores settled payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Document) (*persistence.InsertResult, error)
}

type paymentRepository struct {
	coll persistence.Collection
}

// NewPaymentRepository returns a store-backed implementation.
func NewPaymentRepository(store persistence.Store) PaymentRepository {
	return &paymentRepository{coll: store.Collection(domain.CollectionPayments)}
}

func (r *paymentRepository) Create(ctx context.Context, payment domain.Document) (*persistence.InsertResult, error) {
	return r.coll.InsertOne(ctx, payment)
}

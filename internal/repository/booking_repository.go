package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/persistence"
)

// BookingRepository defines persistence access for bookings.
type BookingRepository interface {
	ListByEmail(ctx context.Context, email string) ([]domain.Document, error)
	// GetByID returns nil without error when the booking does not exist.
	GetByID(ctx context.Context, id string) (domain.Document, error)
	Create(ctx context.Context, booking domain.Document) (*persistence.InsertResult, error)
	Update(ctx context.Context, id string, set domain.Document) (*persistence.UpdateResult, error)
}

type bookingRepository struct {
	coll persistence.Collection
}

// NewBookingRepository returns a store-backed implementation.
func NewBookingRepository(store persistence.Store) BookingRepository {
	return &bookingRepository{coll: store.Collection(domain.CollectionBookings)}
}

func (r *bookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Document, error) {
	return r.coll.Find(ctx, domain.Filter{"email": email})
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (domain.Document, error) {
	doc, err := r.coll.FindOne(ctx, domain.Filter{domain.FieldID: id})
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, nil
	}
	return doc, err
}

func (r *bookingRepository) Create(ctx context.Context, booking domain.Document) (*persistence.InsertResult, error) {
	return r.coll.InsertOne(ctx, booking)
}

func (r *bookingRepository) Update(ctx context.Context, id string, set domain.Document) (*persistence.UpdateResult, error) {
	return r.coll.UpdateOne(ctx, domain.Filter{domain.FieldID: id}, set)
}

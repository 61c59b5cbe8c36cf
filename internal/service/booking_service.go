package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/laptop-resale/internal/auth"
	"github.com/spec-kit/laptop-resale/internal/domain"
	"github.com/spec-kit/laptop-resale/internal/events"
	"github.com/spec-kit/laptop-resale/internal/persistence"
	"github.com/spec-kit/laptop-resale/internal/repository"
	apperrors "github.com/spec-kit/laptop-resale/pkg/util"
)

// BookingService manages buyer bookings.
type BookingService struct {
	bookings   repository.BookingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewBookingService builds the service.
func NewBookingService(bookings repository.BookingRepository, dispatcher events.Dispatcher, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{bookings: bookings, dispatcher: dispatcher, logger: logger}
}

// ListForCaller returns the bookings of email, which must be the caller's own.
func (s *BookingService) ListForCaller(ctx context.Context, email string) ([]domain.Document, error) {
	identity, ok := auth.IdentityFrom(ctx)
	if !ok || identity.Email != email {
		return nil, apperrors.NewForbidden("bookings of another user")
	}
	return s.bookings.ListByEmail(ctx, email)
}

// Get returns the booking or nil when absent.
func (s *BookingService) Get(ctx context.Context, id string) (domain.Document, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) Create(ctx context.Context, booking domain.Document) (*persistence.InsertResult, error) {
	doc := booking.Clone()
	if doc == nil {
		doc = domain.Document{}
	}
	delete(doc, domain.FieldID)
	res, err := s.bookings.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventBookingCreated,
		ResourceID: res.InsertedID,
		ActorEmail: doc.String("email"),
		Payload: events.BookingCreatedPayload{
			Email:     doc.String("email"),
			ProductID: doc.String("productId"),
		},
	})
	return res, nil
}

package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated  EventType = "booking_created"
	EventPaymentRecorded EventType = "payment_recorded"
	EventProductReported EventType = "product_reported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorEmail string      `json:"actor_email,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	Email     string `json:"email"`
	ProductID string `json:"product_id,omitempty"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	BookingID     string `json:"booking_id"`
	ProductID     string `json:"product_id"`
	TransactionID string `json:"transaction_id"`
}

// ProductReportedPayload payload.
type ProductReportedPayload struct {
	Reported bool `json:"reported"`
}

package domain

// PaymentIntent is the provider-side handle a client uses to confirm a card payment.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// Payment is the subset of a payment record used to settle a booking.
type Payment struct {
	BookingID     string
	ProductID     string
	TransactionID string
}

// PaymentFromDocument reads settlement references from a posted payment body.
func PaymentFromDocument(doc Document) Payment {
	return Payment{
		BookingID:     doc.String("bookingId"),
		ProductID:     doc.String("productId"),
		TransactionID: doc.String("transactionId"),
	}
}

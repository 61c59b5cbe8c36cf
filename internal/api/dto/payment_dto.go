package dto

// PaymentIntentRequest is the booking posted to POST /create-payment-intent.
// Only the price is used.
type PaymentIntentRequest struct {
	Price *float64 `json:"price"`
}

// PaymentIntentResponse carries the secret the client confirms the card payment with.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

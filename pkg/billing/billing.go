package billing

import (
	"context"
	"time"
)

// CheckoutRequest describes one checkout session for the session's user.
type CheckoutRequest struct {
	PriceID    string // Paddle catalog price
	CustomerID string // our user ID, carried through custom data
	Email      string
	SuccessURL string
}

// Checkout is a hosted checkout session the dashboard redirects to.
type Checkout struct {
	URL       string    `json:"url"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PaymentEventType classifies parsed payment webhooks.
type PaymentEventType string

const (
	PaymentCompleted PaymentEventType = "payment_completed"
	PaymentFailed    PaymentEventType = "payment_failed"
	PaymentOther     PaymentEventType = "payment_other"
)

// PaymentEvent is a payment webhook reduced to what the dashboard cares
// about.
type PaymentEvent struct {
	Type          PaymentEventType `json:"type"`
	ProviderEvent string           `json:"provider_event"`
	TransactionID string           `json:"transaction_id"`
	CustomerID    string           `json:"customer_id"`
	Status        string           `json:"status"`
}

// Provider creates checkout sessions with the payment processor.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
}

package billing

import "errors"

var (
	ErrMissingAPIKey        = errors.New("paddle API key is required")
	ErrMissingWebhookSecret = errors.New("paddle webhook secret is required")
	ErrInvalidEnvironment   = errors.New("invalid paddle environment")
	ErrMissingPriceID       = errors.New("price ID is required")
	ErrMissingCustomerID    = errors.New("customer ID is required")
	ErrNoCheckoutURL        = errors.New("no checkout URL returned")
	ErrInvalidSignature     = errors.New("webhook signature verification failed")
	ErrMalformedWebhook     = errors.New("malformed webhook payload")
)

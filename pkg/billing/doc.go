// Package billing creates hosted checkout sessions for the dashboard's paid
// plan and parses the payment webhooks coming back.
//
// The Provider interface keeps the dashboard module testable; PaddleProvider
// is the production implementation on the Paddle Billing API.
package billing

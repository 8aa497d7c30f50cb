package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig carries the Paddle credentials read from the environment.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleProvider implements Provider on the Paddle Billing API.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
}

// NewPaddleProvider creates a provider for the configured environment.
func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	var (
		client *paddle.SDK
		err    error
	)
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEnvironment, cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
	}, nil
}

// CreateCheckout opens a hosted checkout session for a catalog price. The
// user ID travels in custom data so the payment webhook can be attributed.
func (p *PaddleProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})

	txReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"customer_id": req.CustomerID,
		},
	}
	if req.Email != "" {
		txReq.CustomData["email"] = req.Email
	}
	if req.SuccessURL != "" {
		txReq.Checkout = &paddle.TransactionCheckout{URL: paddle.PtrTo(req.SuccessURL)}
	}

	tx, err := p.client.TransactionsClient.CreateTransaction(ctx, txReq)
	if err != nil {
		return nil, fmt.Errorf("create paddle transaction: %w", err)
	}

	if tx.Checkout == nil || tx.Checkout.URL == nil || *tx.Checkout.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &Checkout{
		URL:       *tx.Checkout.URL,
		SessionID: tx.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour), // Paddle checkout links expire after a day
	}, nil
}

// ParseWebhookRequest verifies the Paddle signature and reduces the payload
// to a PaymentEvent.
func (p *PaddleProvider) ParseWebhookRequest(req *http.Request) (*PaymentEvent, error) {
	valid, err := p.verifier.Verify(req)
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", err)
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	return parsePaymentEvent(body)
}

func validateCheckoutRequest(req CheckoutRequest) error {
	if req.PriceID == "" {
		return ErrMissingPriceID
	}
	if req.CustomerID == "" {
		return ErrMissingCustomerID
	}
	return nil
}

func parsePaymentEvent(payload []byte) (*PaymentEvent, error) {
	var raw struct {
		EventType string `json:"event_type"`
		Data      struct {
			ID         string `json:"id"`
			Status     string `json:"status"`
			CustomData struct {
				CustomerID string `json:"customer_id"`
			} `json:"custom_data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if raw.EventType == "" {
		return nil, ErrMalformedWebhook
	}

	return &PaymentEvent{
		Type:          mapPaymentEventType(raw.EventType),
		ProviderEvent: raw.EventType,
		TransactionID: raw.Data.ID,
		CustomerID:    raw.Data.CustomData.CustomerID,
		Status:        raw.Data.Status,
	}, nil
}

func mapPaymentEventType(providerEvent string) PaymentEventType {
	switch providerEvent {
	case "transaction.completed", "transaction.payment_succeeded":
		return PaymentCompleted
	case "transaction.payment_failed":
		return PaymentFailed
	default:
		return PaymentOther
	}
}

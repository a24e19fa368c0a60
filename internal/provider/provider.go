// Package provider defines the payment gateway integration interface.
package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// CreatePaymentInput holds the parameters for initiating a payment with the
// gateway.
type CreatePaymentInput struct {
	OrderID     string
	Amount      decimal.Decimal
	Currency    string
	Description string
	// CustomerEmail receives the fiscal receipt.
	CustomerEmail string
	// ReceiptItemDescription labels the single receipt line item. Gateways
	// cap its length; implementations truncate as required.
	ReceiptItemDescription string
}

// CreatePaymentResult holds the gateway's response to a payment creation.
type CreatePaymentResult struct {
	// PaymentID is the gateway-side payment identifier.
	PaymentID string
	Status    string
	// ConfirmationURL is where the customer completes the payment.
	ConfirmationURL string
	// IdempotencyKey is the key the request was sent with.
	IdempotencyKey string
}

// Provider defines the interface for payment gateway integrations.
type Provider interface {
	// Name returns the provider name (e.g., "mock", "yookassa").
	Name() string

	// CreatePayment initiates a payment with the gateway. The call blocks
	// on network I/O; callers should dispatch it off their request path.
	CreatePayment(ctx context.Context, input *CreatePaymentInput) (*CreatePaymentResult, error)
}

// Package mock provides an in-process payment provider for development and
// tests.
package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kiepon/store-backend/internal/provider"
)

// Provider is a mock payment provider that always succeeds. The confirmation
// URL it returns points nowhere; it exists so the rest of the flow can be
// exercised without gateway credentials.
type Provider struct{}

// NewProvider creates a new mock payment provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "mock"
}

// CreatePayment simulates a payment creation that always succeeds.
func (p *Provider) CreatePayment(_ context.Context, input *provider.CreatePaymentInput) (*provider.CreatePaymentResult, error) {
	// Simulate a small processing delay.
	time.Sleep(50 * time.Millisecond)

	id := "mock_pay_" + uuid.New().String()

	return &provider.CreatePaymentResult{
		PaymentID:       id,
		Status:          "pending",
		ConfirmationURL: "https://payments.invalid/confirm/" + id,
		IdempotencyKey:  uuid.New().String(),
	}, nil
}

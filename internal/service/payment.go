package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kiepon/store-backend/internal/domain"
	"github.com/Kiepon/store-backend/internal/event"
	"github.com/Kiepon/store-backend/internal/provider"
	"github.com/Kiepon/store-backend/internal/repository"
	apperrors "github.com/Kiepon/store-backend/pkg/errors"
)

// CreatePaymentInput holds the parameters for initiating a payment.
type CreatePaymentInput struct {
	OrderID       string
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	Description   string
}

// PaymentService implements the business logic for payment operations.
type PaymentService struct {
	payments repository.PaymentRepository
	provider provider.Provider
	events   *event.Producer
	logger   *slog.Logger

	// defaultCurrency is used when the input does not carry one.
	defaultCurrency string
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	payments repository.PaymentRepository,
	prov provider.Provider,
	events *event.Producer,
	defaultCurrency string,
	logger *slog.Logger,
) *PaymentService {
	if defaultCurrency == "" {
		defaultCurrency = "RUB"
	}
	return &PaymentService{
		payments:        payments,
		provider:        prov,
		events:          events,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// CreatePayment initiates a payment with the gateway and records it. The
// gateway call blocks on network I/O, so it runs on its own goroutine and the
// method returns early if the caller's context is canceled.
func (s *PaymentService) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*domain.Payment, error) {
	if input.OrderID == "" {
		return nil, apperrors.InvalidInput("order_id is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.InvalidInput("amount must be positive")
	}
	if input.CustomerEmail == "" {
		return nil, apperrors.InvalidInput("customer_email is required")
	}

	currency := input.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("Order %s payment", input.OrderID)
	}

	result, err := s.dispatchCreate(ctx, &provider.CreatePaymentInput{
		OrderID:       input.OrderID,
		Amount:        input.Amount,
		Currency:      currency,
		Description:   description,
		CustomerEmail: input.CustomerEmail,
	})
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:               uuid.New().String(),
		OrderID:          input.OrderID,
		Amount:           input.Amount,
		Currency:         currency,
		Status:           domain.PaymentStatusPending,
		GatewayPaymentID: result.PaymentID,
		ConfirmationURL:  result.ConfirmationURL,
		IdempotencyKey:   result.IdempotencyKey,
		Email:            input.CustomerEmail,
		Description:      description,
		CreatedAt:        time.Now().UTC(),
	}
	if result.Status != "" {
		payment.Status = result.Status
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		// The gateway payment exists but we lost the local record. Surface
		// the error with the gateway ID so it can be reconciled.
		return nil, fmt.Errorf("record payment %s (gateway %s): %w", payment.ID, result.PaymentID, err)
	}

	s.logger.InfoContext(ctx, "payment created",
		slog.String("payment_id", payment.ID),
		slog.String("order_id", payment.OrderID),
		slog.String("gateway_payment_id", payment.GatewayPaymentID),
		slog.String("provider", s.provider.Name()),
		slog.String("amount", payment.Amount.StringFixed(2)),
	)

	if err := s.events.PublishPaymentCreated(ctx, payment); err != nil {
		s.logger.WarnContext(ctx, "failed to publish payment.created event",
			slog.String("payment_id", payment.ID),
			slog.String("error", err.Error()),
		)
	}

	return payment, nil
}

// GetPayment returns a recorded payment by its ID.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

type providerResult struct {
	result *provider.CreatePaymentResult
	err    error
}

// dispatchCreate runs the blocking provider call on its own goroutine so a
// canceled request does not keep its handler pinned. The goroutine finishes
// in the background either way; the channel is buffered so it never leaks.
func (s *PaymentService) dispatchCreate(ctx context.Context, input *provider.CreatePaymentInput) (*provider.CreatePaymentResult, error) {
	ch := make(chan providerResult, 1)

	go func() {
		result, err := s.provider.CreatePayment(ctx, input)
		ch <- providerResult{result: result, err: err}
	}()

	select {
	case r := <-ch:
		return r.result, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("payment creation canceled: %w", ctx.Err())
	}
}

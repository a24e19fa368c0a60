package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Kiepon/store-backend/internal/domain"
	"github.com/Kiepon/store-backend/pkg/database"
	apperrors "github.com/Kiepon/store-backend/pkg/errors"
)

// PaymentRepository implements repository.PaymentRepository using PostgreSQL.
type PaymentRepository struct {
	pool database.DBTX
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool database.DBTX) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, amount, currency, status, gateway_payment_id, confirmation_url, idempotency_key, email, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.OrderID,
		p.Amount.StringFixed(2),
		p.Currency,
		p.Status,
		p.GatewayPaymentID,
		p.ConfirmationURL,
		p.IdempotencyKey,
		p.Email,
		p.Description,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// GetByID returns a payment by its ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, order_id, amount::text, currency, status, gateway_payment_id, confirmation_url, idempotency_key, email, description, created_at
		FROM payments
		WHERE id = $1`

	var (
		p      domain.Payment
		amount string
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.OrderID,
		&amount,
		&p.Currency,
		&p.Status,
		&p.GatewayPaymentID,
		&p.ConfirmationURL,
		&p.IdempotencyKey,
		&p.Email,
		&p.Description,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("payment", id)
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}

	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse payment amount: %w", err)
	}

	return &p, nil
}

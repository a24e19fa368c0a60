package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kiepon/store-backend/internal/domain"
	"github.com/Kiepon/store-backend/pkg/database"
	apperrors "github.com/Kiepon/store-backend/pkg/errors"
)

func newPaymentRepo(t *testing.T) (*PaymentRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewPaymentRepository(mock)
	return repo, mock
}

func samplePayment() *domain.Payment {
	return &domain.Payment{
		ID:               "payment-001",
		OrderID:          "order-001",
		Amount:           decimal.RequireFromString("100.00"),
		Currency:         "RUB",
		Status:           domain.PaymentStatusPending,
		GatewayPaymentID: "yk-22e12f66",
		ConfirmationURL:  "https://yoomoney.ru/checkout/payments/v2/contract?orderId=yk-22e12f66",
		IdempotencyKey:   "b3f6f6f0-7d63-4f55-9c4e-54b2a1f23dd1",
		Email:            "buyer@example.com",
		Description:      "Order order-001",
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPaymentRepository_Create_Success(t *testing.T) {
	repo, mock := newPaymentRepo(t)

	p := samplePayment()

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(
			p.ID, p.OrderID, "100.00", p.Currency, p.Status,
			p.GatewayPaymentID, p.ConfirmationURL, p.IdempotencyKey,
			p.Email, p.Description, p.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), p)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Create_SerializesExactAmount(t *testing.T) {
	repo, mock := newPaymentRepo(t)

	p := samplePayment()
	p.Amount = decimal.RequireFromString("1999.9")

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(
			p.ID, p.OrderID, "1999.90", p.Currency, p.Status,
			p.GatewayPaymentID, p.ConfirmationURL, p.IdempotencyKey,
			p.Email, p.Description, p.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), p)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Create_InsertError(t *testing.T) {
	repo, mock := newPaymentRepo(t)

	p := samplePayment()

	mock.ExpectExec("INSERT INTO payments").
		WithArgs(
			p.ID, p.OrderID, "100.00", p.Currency, p.Status,
			p.GatewayPaymentID, p.ConfirmationURL, p.IdempotencyKey,
			p.Email, p.Description, p.CreatedAt,
		).
		WillReturnError(errors.New("duplicate key"))

	err := repo.Create(context.Background(), p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert payment")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_GetByID(t *testing.T) {
	repo, mock := newPaymentRepo(t)

	p := samplePayment()

	rows := pgxmock.NewRows([]string{
		"id", "order_id", "amount", "currency", "status",
		"gateway_payment_id", "confirmation_url", "idempotency_key",
		"email", "description", "created_at",
	}).AddRow(
		p.ID, p.OrderID, "100.00", p.Currency, p.Status,
		p.GatewayPaymentID, p.ConfirmationURL, p.IdempotencyKey,
		p.Email, p.Description, p.CreatedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(p.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(p.Amount))
	assert.Equal(t, p.ConfirmationURL, got.ConfirmationURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newPaymentRepo(t)

	rows := pgxmock.NewRows([]string{
		"id", "order_id", "amount", "currency", "status",
		"gateway_payment_id", "confirmation_url", "idempotency_key",
		"email", "description", "created_at",
	})

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("missing").
		WillReturnRows(rows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

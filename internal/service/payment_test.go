package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kiepon/store-backend/internal/domain"
	"github.com/Kiepon/store-backend/internal/provider"
	apperrors "github.com/Kiepon/store-backend/pkg/errors"
)

// --- Mock Repository ---

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

// --- Mock Provider ---

type mockPaymentProvider struct {
	mock.Mock
}

func (m *mockPaymentProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockPaymentProvider) CreatePayment(ctx context.Context, input *provider.CreatePaymentInput) (*provider.CreatePaymentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CreatePaymentResult), args.Error(1)
}

// --- Test Helpers ---

func newPaymentTestService(repo *mockPaymentRepository, prov *mockPaymentProvider) *PaymentService {
	return NewPaymentService(repo, prov, nil, "RUB", newTestLogger())
}

func paymentInput() *CreatePaymentInput {
	return &CreatePaymentInput{
		OrderID:       "order-001",
		Amount:        decimal.RequireFromString("100.00"),
		CustomerEmail: "buyer@example.com",
		Description:   "Order order-001",
	}
}

func gatewayResult() *provider.CreatePaymentResult {
	return &provider.CreatePaymentResult{
		PaymentID:       "yk-22e12f66",
		Status:          "pending",
		ConfirmationURL: "https://yoomoney.ru/checkout/payments/v2/contract?orderId=yk-22e12f66",
		IdempotencyKey:  "b3f6f6f0-7d63-4f55-9c4e-54b2a1f23dd1",
	}
}

// --- Tests ---

func TestCreatePayment_Success(t *testing.T) {
	repo := new(mockPaymentRepository)
	prov := new(mockPaymentProvider)
	svc := newPaymentTestService(repo, prov)

	prov.On("Name").Return("mock")
	prov.On("CreatePayment", mock.Anything, mock.AnythingOfType("*provider.CreatePaymentInput")).Return(gatewayResult(), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)

	payment, err := svc.CreatePayment(context.Background(), paymentInput())

	require.NoError(t, err)
	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, "order-001", payment.OrderID)
	assert.Equal(t, "yk-22e12f66", payment.GatewayPaymentID)
	assert.Equal(t, "pending", payment.Status)
	assert.Equal(t, "RUB", payment.Currency)
	assert.NotEmpty(t, payment.ConfirmationURL)
	assert.NotEmpty(t, payment.IdempotencyKey)

	// The provider sees the currency default applied.
	sent := prov.Calls[0].Arguments.Get(1).(*provider.CreatePaymentInput)
	assert.Equal(t, "RUB", sent.Currency)
	assert.Equal(t, "buyer@example.com", sent.CustomerEmail)

	repo.AssertExpectations(t)
	prov.AssertExpectations(t)
}

func TestCreatePayment_InvalidInput(t *testing.T) {
	repo := new(mockPaymentRepository)
	prov := new(mockPaymentProvider)
	svc := newPaymentTestService(repo, prov)

	cases := []struct {
		name string
		mod  func(*CreatePaymentInput)
	}{
		{"missing order id", func(in *CreatePaymentInput) { in.OrderID = "" }},
		{"zero amount", func(in *CreatePaymentInput) { in.Amount = decimal.Zero }},
		{"negative amount", func(in *CreatePaymentInput) { in.Amount = decimal.RequireFromString("-1") }},
		{"missing email", func(in *CreatePaymentInput) { in.CustomerEmail = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := paymentInput()
			tc.mod(input)

			_, err := svc.CreatePayment(context.Background(), input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	prov.AssertNotCalled(t, "CreatePayment")
	repo.AssertNotCalled(t, "Create")
}

func TestCreatePayment_GatewayFailure(t *testing.T) {
	repo := new(mockPaymentRepository)
	prov := new(mockPaymentProvider)
	svc := newPaymentTestService(repo, prov)

	prov.On("CreatePayment", mock.Anything, mock.Anything).
		Return(nil, apperrors.GatewayFailure("yookassa: Invalid parameter value (invalid_request)"))

	_, err := svc.CreatePayment(context.Background(), paymentInput())

	assert.ErrorIs(t, err, apperrors.ErrGateway)
	repo.AssertNotCalled(t, "Create")
	prov.AssertNumberOfCalls(t, "CreatePayment", 1)
}

func TestCreatePayment_ConfigurationError(t *testing.T) {
	repo := new(mockPaymentRepository)
	prov := new(mockPaymentProvider)
	svc := newPaymentTestService(repo, prov)

	prov.On("CreatePayment", mock.Anything, mock.Anything).
		Return(nil, apperrors.Configuration("yookassa shop id and secret key must be set"))

	_, err := svc.CreatePayment(context.Background(), paymentInput())

	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	repo.AssertNotCalled(t, "Create")
}

func TestCreatePayment_ContextCanceled(t *testing.T) {
	repo := new(mockPaymentRepository)
	prov := new(mockPaymentProvider)
	svc := newPaymentTestService(repo, prov)

	started := make(chan struct{})
	prov.On("CreatePayment", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			time.Sleep(200 * time.Millisecond)
		}).
		Return(gatewayResult(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := svc.CreatePayment(ctx, paymentInput())

	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertNotCalled(t, "Create")
}

func TestCreatePayment_RepositoryError(t *testing.T) {
	repo := new(mockPaymentRepository)
	prov := new(mockPaymentProvider)
	svc := newPaymentTestService(repo, prov)

	prov.On("CreatePayment", mock.Anything, mock.Anything).Return(gatewayResult(), nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.CreatePayment(context.Background(), paymentInput())

	require.Error(t, err)
	// The gateway payment ID is kept in the error for reconciliation.
	assert.Contains(t, err.Error(), "yk-22e12f66")
}

func TestGetPayment(t *testing.T) {
	repo := new(mockPaymentRepository)
	prov := new(mockPaymentProvider)
	svc := newPaymentTestService(repo, prov)

	stored := &domain.Payment{ID: "payment-001", OrderID: "order-001", Amount: decimal.RequireFromString("100.00")}
	repo.On("GetByID", mock.Anything, "payment-001").Return(stored, nil)

	got, err := svc.GetPayment(context.Background(), "payment-001")
	require.NoError(t, err)
	assert.Equal(t, "order-001", got.OrderID)
}

// Package yookassa implements the payment provider interface against the
// YooKassa REST API (https://yookassa.ru/developers/api).
package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Kiepon/store-backend/internal/provider"
	apperrors "github.com/Kiepon/store-backend/pkg/errors"
	"github.com/Kiepon/store-backend/pkg/httpclient"
)

const (
	// DefaultBaseURL is the production YooKassa API endpoint.
	DefaultBaseURL = "https://api.yookassa.ru"

	// maxReceiptItemDescription is the gateway's limit on a receipt line
	// item description.
	maxReceiptItemDescription = 128
)

// Config holds the YooKassa provider configuration.
type Config struct {
	// ShopID and SecretKey are the Basic auth credentials issued by
	// YooKassa. Both are required.
	ShopID    string
	SecretKey string

	// ReturnURL is where the customer is redirected after completing the
	// payment form.
	ReturnURL string

	// BaseURL overrides the API endpoint; used in tests.
	BaseURL string

	// VATCode is the tax code applied to receipt items (1 means no VAT).
	VATCode int
}

// Provider implements provider.Provider against the YooKassa API.
type Provider struct {
	cfg    Config
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// NewProvider creates a YooKassa payment provider. Requests are sent without
// internal retries; a failed payment creation surfaces to the caller rather
// than being replayed.
func NewProvider(cfg Config, logger *slog.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.VATCode == 0 {
		cfg.VATCode = 1
	}

	client := httpclient.New(httpclient.Config{
		Timeout:    30 * time.Second,
		MaxRetries: 0,
	})

	return &Provider{
		cfg:    cfg,
		client: httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("yookassa"), logger),
		logger: logger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "yookassa"
}

// createPaymentRequest is the POST /v3/payments payload.
type createPaymentRequest struct {
	Amount       amount            `json:"amount"`
	Confirmation confirmation      `json:"confirmation"`
	Capture      bool              `json:"capture"`
	Description  string            `json:"description"`
	Metadata     map[string]string `json:"metadata"`
	Receipt      receipt           `json:"receipt"`
}

// amount is a monetary value carried as an exact decimal string ("100.00").
type amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type receipt struct {
	Customer customer      `json:"customer"`
	Items    []receiptItem `json:"items"`
}

type customer struct {
	Email string `json:"email"`
}

type receiptItem struct {
	Description    string `json:"description"`
	Quantity       string `json:"quantity"`
	Amount         amount `json:"amount"`
	VATCode        int    `json:"vat_code"`
	PaymentMode    string `json:"payment_mode"`
	PaymentSubject string `json:"payment_subject"`
}

// createPaymentResponse is the subset of the gateway's payment object we use.
type createPaymentResponse struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Confirmation *confirmation `json:"confirmation"`
}

// CreatePayment initiates a payment with YooKassa. Each call sends a fresh
// Idempotence-Key, so repeated calls create distinct payments.
func (p *Provider) CreatePayment(ctx context.Context, input *provider.CreatePaymentInput) (*provider.CreatePaymentResult, error) {
	if p.cfg.ShopID == "" || p.cfg.SecretKey == "" {
		return nil, apperrors.Configuration("yookassa shop id and secret key must be set")
	}

	value := input.Amount.StringFixed(2)

	itemDescription := input.ReceiptItemDescription
	if itemDescription == "" {
		itemDescription = input.Description
	}
	itemDescription = truncate(itemDescription, maxReceiptItemDescription)

	payload := createPaymentRequest{
		Amount: amount{
			Value:    value,
			Currency: input.Currency,
		},
		Confirmation: confirmation{
			Type:      "redirect",
			ReturnURL: p.cfg.ReturnURL,
		},
		Capture:     true,
		Description: input.Description,
		Metadata: map[string]string{
			"order_id": input.OrderID,
		},
		Receipt: receipt{
			Customer: customer{Email: input.CustomerEmail},
			Items: []receiptItem{
				{
					Description:    itemDescription,
					Quantity:       "1.00",
					Amount:         amount{Value: value, Currency: input.Currency},
					VATCode:        p.cfg.VATCode,
					PaymentMode:    "full_prepayment",
					PaymentSubject: "commodity",
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	idempotencyKey := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v3/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", idempotencyKey)
	req.SetBasicAuth(p.cfg.ShopID, p.cfg.SecretKey)

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, apperrors.GatewayFailure(fmt.Sprintf("yookassa request failed: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpclient.ParseUpstreamError(resp, "yookassa")
	}
	defer func() { _ = resp.Body.Close() }()

	var payment createPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, apperrors.GatewayFailure(fmt.Sprintf("yookassa: decode response: %v", err))
	}

	result := &provider.CreatePaymentResult{
		PaymentID:      payment.ID,
		Status:         payment.Status,
		IdempotencyKey: idempotencyKey,
	}
	if payment.Confirmation != nil {
		result.ConfirmationURL = payment.Confirmation.ConfirmationURL
	}

	p.logger.Info("payment created with gateway",
		slog.String("provider", "yookassa"),
		slog.String("gateway_payment_id", payment.ID),
		slog.String("status", payment.Status),
		slog.String("order_id", input.OrderID),
	)

	return result, nil
}

// truncate cuts s to at most max characters.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

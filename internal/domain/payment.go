package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
)

// Payment records a payment initiated with the external gateway. Amount is
// an exact decimal; it is serialized with two fractional digits everywhere
// it crosses a boundary (gateway payloads, database NUMERIC columns).
type Payment struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	GatewayPaymentID string          `json:"gateway_payment_id,omitempty"`
	ConfirmationURL  string          `json:"confirmation_url,omitempty"`
	IdempotencyKey   string          `json:"-"`
	Email            string          `json:"email"`
	Description      string          `json:"description"`
	CreatedAt        time.Time       `json:"created_at"`
}

// MarshalJSON emits the amount with exactly two fractional digits, matching
// the gateway payload and database representations.
func (p Payment) MarshalJSON() ([]byte, error) {
	type alias Payment
	return json.Marshal(struct {
		alias
		Amount string `json:"amount"`
	}{
		alias:  alias(p),
		Amount: p.Amount.StringFixed(2),
	})
}

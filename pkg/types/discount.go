package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppliedDiscount is the jsonb snapshot of a referral discount attached to a
// reservation at checkout time.
type AppliedDiscount struct {
	Amount    decimal.Decimal `json:"amount"`
	Code      string          `json:"code"`
	AppliedAt time.Time       `json:"applied_at"`
}

// RefundReasons is the jsonb list of reasons supplied with a refund request.
type RefundReasons []string

package referrals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountSummary is the tenant-facing view of an active referral discount.
type DiscountSummary struct {
	ID         uuid.UUID       `json:"id"`
	Code       string          `json:"code"`
	Amount     decimal.Decimal `json:"amount"`
	ExpiryDate time.Time       `json:"expiry_date"`
}

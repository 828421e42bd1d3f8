package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
)

// PaymentResult is the result-object contract for payment processing. It
// never surfaces as a Go error to transport callers: failures are folded
// into Success=false plus a display message.
type PaymentResult struct {
	Success   bool       `json:"success"`
	PaymentID *uuid.UUID `json:"payment_id,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// MoveInResult mirrors PaymentResult for the move-in confirmation path.
type MoveInResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PropertySummary is the display payload joined onto a payment row.
type PropertySummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	City  *string   `json:"city,omitempty"`
}

// AdvertiserSummary is the property-owner payload joined onto a payment row.
type AdvertiserSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// UserPaymentEntry is one row of a tenant's payment history.
type UserPaymentEntry struct {
	ID            uuid.UUID           `json:"id"`
	ReservationID uuid.UUID           `json:"reservation_id"`
	Amount        decimal.Decimal     `json:"amount"`
	Currency      enums.Currency      `json:"currency"`
	Status        enums.PaymentStatus `json:"status"`
	TransactionID string              `json:"transaction_id"`
	PaymentDate   time.Time           `json:"payment_date"`
	Property      *PropertySummary    `json:"property,omitempty"`
	Advertiser    *AdvertiserSummary  `json:"advertiser,omitempty"`
}

// UserPaymentList wraps the paginated payment history plus the next cursor.
type UserPaymentList struct {
	Payments   []UserPaymentEntry `json:"payments"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

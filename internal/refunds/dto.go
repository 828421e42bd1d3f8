package refunds

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
	"github.com/kirayahq/kiraya-backend/pkg/types"
)

// RefundDetails captures the optional review payload for a post-move-in
// refund request.
type RefundDetails struct {
	Reasons         types.RefundReasons
	ProofURLs       types.RefundReasons
	RequestedAmount decimal.Decimal
	OriginalAmount  decimal.Decimal
	ServiceFee      decimal.Decimal
}

// StandardCancellationInput carries the fee breakdown for a fee-bearing
// cancellation. The fee schedule is computed upstream; the service verifies
// the arithmetic before recording it.
type StandardCancellationInput struct {
	ReservationID   uuid.UUID
	Reason          string
	DaysToMoveIn    int
	RefundAmount    decimal.Decimal
	OriginalAmount  decimal.Decimal
	ServiceFee      decimal.Decimal
	CancellationFee decimal.Decimal
}

// RefundRequestSummary is the listing row returned to tenants.
type RefundRequestSummary struct {
	ID            uuid.UUID                 `json:"id"`
	ReservationID uuid.UUID                 `json:"reservation_id"`
	Amount        decimal.Decimal           `json:"amount"`
	Status        enums.RefundRequestStatus `json:"status"`
	AutoApproved  bool                      `json:"auto_approved"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// RefundRequestList wraps the paginated refund requests plus the next cursor.
type RefundRequestList struct {
	Requests   []RefundRequestSummary `json:"requests"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

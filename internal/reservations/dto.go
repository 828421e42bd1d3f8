package reservations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
)

// CreateInput captures the checkout payload for a new reservation. Personal
// fields left empty are defaulted from the tenant's profile.
type CreateInput struct {
	PropertyID    uuid.UUID
	Price         decimal.Decimal
	ServiceFee    decimal.Decimal
	TotalPrice    decimal.Decimal
	Occupants     int
	ScheduledDate *time.Time
	MoveOutDate   *time.Time
	TenantName    *string
	TenantEmail   *string
	TenantPhone   *string
	TenantDOB     *time.Time
	TenantAboutMe *string
	ReferralCode  *string
}

// RejectInput carries the advertiser's rejection or counter-offer.
type RejectInput struct {
	Reason              enums.RejectionReason
	SuggestedMoveInDate *time.Time
}

// ReservationSummary is the listing row returned to tenants and advertisers.
type ReservationSummary struct {
	ID            uuid.UUID                      `json:"id"`
	PropertyID    *uuid.UUID                     `json:"property_id,omitempty"`
	PropertyTitle *string                        `json:"property_title,omitempty"`
	Status        enums.ReservationStatus        `json:"status"`
	PaymentStatus enums.ReservationPaymentStatus `json:"payment_status"`
	TotalPrice    decimal.Decimal                `json:"total_price"`
	ScheduledDate *time.Time                     `json:"scheduled_date,omitempty"`
	MovedIn       bool                           `json:"moved_in"`
	CreatedAt     time.Time                      `json:"created_at"`
}

// ReservationList wraps the paginated reservations plus the next page cursor.
type ReservationList struct {
	Reservations []ReservationSummary `json:"reservations"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}

func summarize(r models.Reservation, propertyTitle *string) ReservationSummary {
	return ReservationSummary{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		PropertyTitle: propertyTitle,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		TotalPrice:    r.TotalPrice,
		ScheduledDate: r.ScheduledDate,
		MovedIn:       r.MovedIn,
		CreatedAt:     r.CreatedAt,
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
	"github.com/kirayahq/kiraya-backend/pkg/types"
)

// RefundRequest records one cancellation or refund event. Pre-payment
// cancellations are minted auto-approved; post-move-in requests wait for
// admin review and standard cancellations carry the fee breakdown.
type RefundRequest struct {
	ID              uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReservationID   uuid.UUID                 `gorm:"column:reservation_id;type:uuid;not null;index"`
	UserID          uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;index"`
	PropertyID      *uuid.UUID                `gorm:"column:property_id;type:uuid"`
	Reason          *string                   `gorm:"column:reason"`
	Reasons         types.RefundReasons       `gorm:"column:reasons;type:jsonb;serializer:json"`
	ProofURLs       types.RefundReasons       `gorm:"column:proof_urls;type:jsonb;serializer:json"`
	Amount          decimal.Decimal           `gorm:"type:numeric(12,2);not null;default:0"`
	OriginalAmount  decimal.Decimal           `gorm:"column:original_amount;type:numeric(12,2);not null;default:0"`
	ServiceFee      decimal.Decimal           `gorm:"column:service_fee;type:numeric(12,2);not null;default:0"`
	CancellationFee *decimal.Decimal          `gorm:"column:cancellation_fee;type:numeric(12,2)"`
	DaysToMoveIn    *int                      `gorm:"column:days_to_move_in"`
	Status          enums.RefundRequestStatus `gorm:"type:refund_request_status;not null;default:'pending'"`
	AutoApproved    bool                      `gorm:"column:auto_approved;not null;default:false"`
	AdminReviewed   bool                      `gorm:"column:admin_reviewed;not null;default:false"`
	ResolvedAt      *time.Time                `gorm:"column:resolved_at"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

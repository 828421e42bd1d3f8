package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
	"github.com/kirayahq/kiraya-backend/pkg/types"
)

// Reservation is the central booking entity. Status transitions are guarded by
// conditional updates on the prior status, so concurrent writers surface as
// conflicts instead of silently overwriting each other.
type Reservation struct {
	ID                     uuid.UUID                      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                 uuid.UUID                      `gorm:"column:user_id;type:uuid;not null;index"`
	PropertyID             *uuid.UUID                     `gorm:"column:property_id;type:uuid;index"`
	Status                 enums.ReservationStatus        `gorm:"type:reservation_status;not null;default:'pending'"`
	PaymentStatus          enums.ReservationPaymentStatus `gorm:"column:payment_status;type:reservation_payment_status;not null;default:'pending'"`
	Price                  decimal.Decimal                `gorm:"type:numeric(12,2);not null;default:0"`
	ServiceFee             decimal.Decimal                `gorm:"column:service_fee;type:numeric(12,2);not null;default:0"`
	TotalPrice             decimal.Decimal                `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	Occupants              int                            `gorm:"column:occupants;not null;default:1"`
	ScheduledDate          *time.Time                     `gorm:"column:scheduled_date"`
	MoveOutDate            *time.Time                     `gorm:"column:move_out_date"`
	CounterOfferMoveInDate *time.Time                     `gorm:"column:counter_offer_move_in_date"`
	RejectionReason        *string                        `gorm:"column:rejection_reason"`
	MovedIn                bool                           `gorm:"column:moved_in;not null;default:false"`
	MovedInAt              *time.Time                     `gorm:"column:moved_in_at"`
	Discount               *types.AppliedDiscount         `gorm:"column:discount;type:jsonb;serializer:json"`
	TenantName             *string                        `gorm:"column:tenant_name"`
	TenantEmail            *string                        `gorm:"column:tenant_email"`
	TenantPhone            *string                        `gorm:"column:tenant_phone"`
	TenantDateOfBirth      *time.Time                     `gorm:"column:tenant_date_of_birth"`
	TenantAboutMe          *string                        `gorm:"column:tenant_about_me"`
	CreatedAt              time.Time                      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time                      `gorm:"column:updated_at;autoUpdateTime"`
}

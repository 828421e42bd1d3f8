package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
)

// PendingPayout schedules advertiser settlement after move-in confirmation.
// ScheduledReleaseDate is move-in time plus the safety window; an external
// settlement process releases rows once that instant passes.
type PendingPayout struct {
	ID                   uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReservationID        uuid.UUID          `gorm:"column:reservation_id;type:uuid;not null;uniqueIndex"`
	PropertyID           uuid.UUID          `gorm:"column:property_id;type:uuid;not null"`
	UserID               uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	AdvertiserID         uuid.UUID          `gorm:"column:advertiser_id;type:uuid;not null;index"`
	PaymentID            uuid.UUID          `gorm:"column:payment_id;type:uuid;not null"`
	Amount               decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	Currency             enums.Currency     `gorm:"type:text;not null;default:'MAD'"`
	Status               enums.PayoutStatus `gorm:"type:payout_status;not null;default:'pending'"`
	ScheduledReleaseDate time.Time          `gorm:"column:scheduled_release_date;not null;index"`
	CreatedAt            time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

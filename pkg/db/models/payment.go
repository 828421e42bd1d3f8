package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
)

// Payment is the ledger row recorded once per successful payment attempt.
// Amount and identity columns are immutable after creation; only the two
// status columns change during refund processing.
type Payment struct {
	ID               uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReservationID    uuid.UUID              `gorm:"column:reservation_id;type:uuid;not null;uniqueIndex"`
	PropertyID       uuid.UUID              `gorm:"column:property_id;type:uuid;not null"`
	UserID           uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	AdvertiserID     uuid.UUID              `gorm:"column:advertiser_id;type:uuid;not null;index"`
	Amount           decimal.Decimal        `gorm:"type:numeric(12,2);not null"`
	Currency         enums.Currency         `gorm:"type:text;not null;default:'MAD'"`
	Status           enums.PaymentStatus    `gorm:"type:payment_status;not null;default:'pending'"`
	AdvertiserStatus enums.SettlementStatus `gorm:"column:advertiser_status;type:settlement_status;not null;default:'pending'"`
	PaymentMethod    enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null;default:'card'"`
	TransactionID    string                 `gorm:"column:transaction_id;type:text;not null;uniqueIndex"`
	PaymentDate      time.Time              `gorm:"column:payment_date;not null"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferralDiscount is a single-use fixed-amount discount minted when a tenant
// redeems an advertiser's referral code. BookingID is stamped once when the
// discount is attached to a booking; IsUsed flips once that booking is paid.
type ReferralDiscount struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string           `gorm:"type:text;not null;index"`
	AdvertiserID  uuid.UUID        `gorm:"column:advertiser_id;type:uuid;not null"`
	UserID        uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Amount        decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	ExpiryDate    time.Time        `gorm:"column:expiry_date;not null"`
	IsUsed        bool             `gorm:"column:is_used;not null;default:false"`
	UsedAt        *time.Time       `gorm:"column:used_at"`
	BookingID     *uuid.UUID       `gorm:"column:booking_id;type:uuid;index"`
	BookingAmount *decimal.Decimal `gorm:"column:booking_amount;type:numeric(12,2)"`
	PropertyID    *uuid.UUID       `gorm:"column:property_id;type:uuid"`
	PropertyName  *string          `gorm:"column:property_name"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

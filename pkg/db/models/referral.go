package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral is an advertiser-owned referral code. Tenants redeem the code to
// mint a ReferralDiscount; each redemption is also recorded as a history row.
type Referral struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AdvertiserID uuid.UUID `gorm:"column:advertiser_id;type:uuid;not null;index"`
	Code         string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ReferralHistory is one redemption event under an advertiser's referral code.
type ReferralHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReferralID uuid.UUID `gorm:"column:referral_id;type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Status     string    `gorm:"type:text;not null;default:'pending'"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
)

// User represents the canonical identity entity for tenants, advertisers and admins.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string         `gorm:"type:text;not null;uniqueIndex"`
	FirstName      string         `gorm:"column:first_name;not null"`
	LastName       string         `gorm:"column:last_name;not null"`
	Phone          *string        `gorm:"column:phone"`
	DateOfBirth    *time.Time     `gorm:"column:date_of_birth"`
	AboutMe        *string        `gorm:"column:about_me"`
	Role           enums.UserRole `gorm:"type:user_role;not null;default:'client'"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	TotalReferrals int            `gorm:"column:total_referrals;not null;default:0"`
	LastLoginAt    *time.Time     `gorm:"column:last_login_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

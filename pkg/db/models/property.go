package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
)

// Property is a rental listing owned by an advertiser. The lifecycle engine
// only touches ownership and availability; listing content lives elsewhere.
type Property struct {
	ID           uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID      uuid.UUID            `gorm:"column:owner_id;type:uuid;not null;index"`
	Title        string               `gorm:"type:text;not null"`
	City         *string              `gorm:"column:city"`
	MonthlyPrice decimal.Decimal      `gorm:"column:monthly_price;type:numeric(12,2);not null;default:0"`
	Status       enums.PropertyStatus `gorm:"type:property_status;not null;default:'available'"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

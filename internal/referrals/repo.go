package referrals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/pkg/db/models"
)

// Repository defines persistence operations for the referral ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindReferralByCode(ctx context.Context, code string) (*models.Referral, error)
	CreateHistory(ctx context.Context, history *models.ReferralHistory) error
	CreateDiscount(ctx context.Context, discount *models.ReferralDiscount) error
	// FindActiveDiscount returns the tenant's oldest unused, unexpired
	// discount with no booking attached yet.
	FindActiveDiscount(ctx context.Context, userID uuid.UUID, now time.Time) (*models.ReferralDiscount, error)
	// StampBooking attaches booking details to an unused discount. The
	// conditional write guarantees a discount lands on at most one booking.
	StampBooking(ctx context.Context, discountID, bookingID uuid.UUID, bookingAmount decimal.Decimal, propertyID *uuid.UUID, propertyName string) (bool, error)
	// FinalizeUsage flips the booking's discount to used exactly once.
	FinalizeUsage(ctx context.Context, bookingID uuid.UUID, now time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a referrals repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindReferralByCode(ctx context.Context, code string) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *repository) CreateHistory(ctx context.Context, history *models.ReferralHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *repository) CreateDiscount(ctx context.Context, discount *models.ReferralDiscount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *repository) FindActiveDiscount(ctx context.Context, userID uuid.UUID, now time.Time) (*models.ReferralDiscount, error) {
	var discount models.ReferralDiscount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_used = ? AND booking_id IS NULL AND expiry_date > ?", userID, false, now).
		Order("created_at ASC").
		First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *repository) StampBooking(ctx context.Context, discountID, bookingID uuid.UUID, bookingAmount decimal.Decimal, propertyID *uuid.UUID, propertyName string) (bool, error) {
	updates := map[string]any{
		"booking_id":     bookingID,
		"booking_amount": bookingAmount,
		"property_name":  propertyName,
		"updated_at":     time.Now().UTC(),
	}
	if propertyID != nil {
		updates["property_id"] = *propertyID
	}
	res := r.db.WithContext(ctx).
		Model(&models.ReferralDiscount{}).
		Where("id = ? AND is_used = ? AND booking_id IS NULL", discountID, false).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FinalizeUsage(ctx context.Context, bookingID uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ReferralDiscount{}).
		Where("booking_id = ? AND is_used = ?", bookingID, false).
		Updates(map[string]any{
			"is_used":    true,
			"used_at":    now,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

package referrals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/internal/users"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/config"
	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	pkgerrors "github.com/kirayahq/kiraya-backend/pkg/errors"
	"github.com/kirayahq/kiraya-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the referral discount ledger. Redeeming a code mints a
// single-use discount; the reservation and payment flows call the Tx variants
// to stamp it onto a booking and later consume it, inside their own
// transactions.
type Service interface {
	ApplyReferralCode(ctx context.Context, identity auth.Identity, code string) (bool, error)
	GetUserDiscount(ctx context.Context, identity auth.Identity) (*DiscountSummary, error)
	ApplyToBookingTx(ctx context.Context, tx *gorm.DB, userID, bookingID uuid.UUID, propertyID *uuid.UUID, propertyName string, amount decimal.Decimal) (*types.AppliedDiscount, error)
	FinalizeUsageTx(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error)
}

type service struct {
	repo  Repository
	users users.Repository
	tx    txRunner
	cfg   config.ReferralsConfig
	now   func() time.Time
}

// NewService builds the referrals service.
func NewService(repo Repository, userRepo users.Repository, tx txRunner, cfg config.ReferralsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("referrals repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cfg.DiscountAmount <= 0 {
		return nil, fmt.Errorf("discount amount must be positive")
	}
	if cfg.DiscountExpiry <= 0 {
		return nil, fmt.Errorf("discount expiry must be positive")
	}
	return &service{
		repo:  repo,
		users: userRepo,
		tx:    tx,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// ApplyReferralCode redeems an advertiser's code for the calling tenant. An
// unknown code or the advertiser's own code redeems nothing and reports
// false without error.
func (s *service) ApplyReferralCode(ctx context.Context, identity auth.Identity, code string) (bool, error) {
	if identity.IsZero() {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	referral, err := s.repo.FindReferralByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up referral code")
	}
	if referral.AdvertiserID == identity.UserID {
		return false, nil
	}

	now := s.now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).IncrementTotalReferrals(ctx, referral.AdvertiserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit referral")
		}

		history := &models.ReferralHistory{
			ReferralID: referral.ID,
			UserID:     identity.UserID,
			Status:     "pending",
		}
		if err := s.repo.WithTx(tx).CreateHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record referral history")
		}

		discount := &models.ReferralDiscount{
			Code:         referral.Code,
			AdvertiserID: referral.AdvertiserID,
			UserID:       identity.UserID,
			Amount:       decimal.NewFromInt(int64(s.cfg.DiscountAmount)),
			ExpiryDate:   now.Add(s.cfg.DiscountExpiry),
		}
		if err := s.repo.WithTx(tx).CreateDiscount(ctx, discount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mint referral discount")
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetUserDiscount returns the caller's oldest usable discount, or nil when
// none is active.
func (s *service) GetUserDiscount(ctx context.Context, identity auth.Identity) (*DiscountSummary, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	discount, err := s.repo.FindActiveDiscount(ctx, identity.UserID, s.now())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load referral discount")
	}
	return &DiscountSummary{
		ID:         discount.ID,
		Code:       discount.Code,
		Amount:     discount.Amount,
		ExpiryDate: discount.ExpiryDate,
	}, nil
}

// ApplyToBookingTx stamps the tenant's active discount onto a booking on the
// caller's transaction. A tenant with no usable discount applies nothing; a
// concurrent stamp of the same discount is treated the same way.
func (s *service) ApplyToBookingTx(ctx context.Context, tx *gorm.DB, userID, bookingID uuid.UUID, propertyID *uuid.UUID, propertyName string, amount decimal.Decimal) (*types.AppliedDiscount, error) {
	now := s.now()
	repo := s.repo.WithTx(tx)

	discount, err := repo.FindActiveDiscount(ctx, userID, now)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load referral discount")
	}

	stamped, err := repo.StampBooking(ctx, discount.ID, bookingID, amount, propertyID, propertyName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach discount to booking")
	}
	if !stamped {
		return nil, nil
	}

	return &types.AppliedDiscount{
		Amount:    discount.Amount,
		Code:      discount.Code,
		AppliedAt: now,
	}, nil
}

// FinalizeUsageTx consumes the discount attached to a paid booking. The flip
// happens at most once; later calls for the same booking report false.
func (s *service) FinalizeUsageTx(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error) {
	used, err := s.repo.WithTx(tx).FinalizeUsage(ctx, bookingID, s.now())
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume referral discount")
	}
	return used, nil
}

package referrals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/internal/users"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/config"
	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
)

type stubRepo struct {
	referral *models.Referral
	active   *models.ReferralDiscount

	histories []*models.ReferralHistory
	discounts []*models.ReferralDiscount
	stamped   bool
	used      bool
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) FindReferralByCode(ctx context.Context, code string) (*models.Referral, error) {
	if s.referral != nil && s.referral.Code == code {
		return s.referral, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRepo) CreateHistory(ctx context.Context, history *models.ReferralHistory) error {
	s.histories = append(s.histories, history)
	return nil
}
func (s *stubRepo) CreateDiscount(ctx context.Context, discount *models.ReferralDiscount) error {
	s.discounts = append(s.discounts, discount)
	return nil
}
func (s *stubRepo) FindActiveDiscount(ctx context.Context, userID uuid.UUID, now time.Time) (*models.ReferralDiscount, error) {
	if s.active != nil && s.active.UserID == userID && !s.stamped {
		return s.active, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRepo) StampBooking(ctx context.Context, discountID, bookingID uuid.UUID, bookingAmount decimal.Decimal, propertyID *uuid.UUID, propertyName string) (bool, error) {
	if s.stamped {
		return false, nil
	}
	s.stamped = true
	return true, nil
}
func (s *stubRepo) FinalizeUsage(ctx context.Context, bookingID uuid.UUID, now time.Time) (bool, error) {
	if s.used {
		return false, nil
	}
	s.used = true
	return true, nil
}

type stubUsers struct {
	incremented []uuid.UUID
}

func (s *stubUsers) WithTx(tx *gorm.DB) users.Repository { return s }
func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return &models.User{ID: id}, nil
}
func (s *stubUsers) IncrementTotalReferrals(ctx context.Context, id uuid.UUID) error {
	s.incremented = append(s.incremented, id)
	return nil
}

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func newTestService(t *testing.T, repo *stubRepo, userRepo *stubUsers) Service {
	t.Helper()
	svc, err := NewService(repo, userRepo, fakeTx{}, config.ReferralsConfig{
		DiscountAmount: 200,
		DiscountExpiry: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestApplyReferralCodeUnknownCode(t *testing.T) {
	repo := &stubRepo{}
	userRepo := &stubUsers{}
	svc := newTestService(t, repo, userRepo)

	applied, err := svc.ApplyReferralCode(context.Background(), auth.Identity{UserID: uuid.New(), Role: enums.UserRoleClient}, "NOPE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Fatal("unknown code must not redeem")
	}
	if len(repo.discounts) != 0 || len(userRepo.incremented) != 0 {
		t.Fatal("nothing should be written")
	}
}

func TestApplyReferralCodeOwnCode(t *testing.T) {
	advertiserID := uuid.New()
	repo := &stubRepo{referral: &models.Referral{ID: uuid.New(), AdvertiserID: advertiserID, Code: "MINE"}}
	userRepo := &stubUsers{}
	svc := newTestService(t, repo, userRepo)

	applied, err := svc.ApplyReferralCode(context.Background(), auth.Identity{UserID: advertiserID, Role: enums.UserRoleAdvertiser}, "MINE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Fatal("own code must not redeem")
	}
	if len(userRepo.incremented) != 0 {
		t.Fatal("self-referral must not be credited")
	}
}

func TestApplyReferralCodeMintsDiscount(t *testing.T) {
	advertiserID := uuid.New()
	tenantID := uuid.New()
	repo := &stubRepo{referral: &models.Referral{ID: uuid.New(), AdvertiserID: advertiserID, Code: "REF123"}}
	userRepo := &stubUsers{}
	svc := newTestService(t, repo, userRepo)

	applied, err := svc.ApplyReferralCode(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, "REF123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatal("expected code to redeem")
	}
	if len(userRepo.incremented) != 1 || userRepo.incremented[0] != advertiserID {
		t.Fatal("advertiser referral count not credited")
	}
	if len(repo.histories) != 1 || repo.histories[0].Status != "pending" {
		t.Fatal("expected pending history row")
	}
	if len(repo.discounts) != 1 {
		t.Fatalf("expected 1 discount, got %d", len(repo.discounts))
	}
	discount := repo.discounts[0]
	if !discount.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200 MAD discount, got %s", discount.Amount)
	}
	if discount.UserID != tenantID || discount.AdvertiserID != advertiserID {
		t.Fatal("discount attribution wrong")
	}
	remaining := time.Until(discount.ExpiryDate)
	if remaining < 6*24*time.Hour || remaining > 8*24*time.Hour {
		t.Fatalf("expected roughly 7 day expiry, got %s", remaining)
	}
}

func TestGetUserDiscountNone(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubUsers{})
	summary, err := svc.GetUserDiscount(context.Background(), auth.Identity{UserID: uuid.New(), Role: enums.UserRoleClient})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != nil {
		t.Fatal("expected no discount")
	}
}

func TestApplyToBookingTxNoDiscount(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubUsers{})
	applied, err := svc.ApplyToBookingTx(context.Background(), nil, uuid.New(), uuid.New(), nil, "Riad Central", decimal.NewFromInt(4400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied != nil {
		t.Fatal("expected no discount applied")
	}
}

func TestApplyToBookingTxStampsOnce(t *testing.T) {
	tenantID := uuid.New()
	repo := &stubRepo{
		active: &models.ReferralDiscount{
			ID:         uuid.New(),
			Code:       "REF123",
			UserID:     tenantID,
			Amount:     decimal.NewFromInt(200),
			ExpiryDate: time.Now().UTC().Add(24 * time.Hour),
		},
	}
	svc := newTestService(t, repo, &stubUsers{})

	first, err := svc.ApplyToBookingTx(context.Background(), nil, tenantID, uuid.New(), nil, "Riad Central", decimal.NewFromInt(4400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == nil || first.Code != "REF123" || !first.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected applied discount, got %+v", first)
	}

	second, err := svc.ApplyToBookingTx(context.Background(), nil, tenantID, uuid.New(), nil, "Riad Central", decimal.NewFromInt(4400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != nil {
		t.Fatal("a stamped discount must not apply again")
	}
}

func TestFinalizeUsageTxSingleUse(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo, &stubUsers{})
	bookingID := uuid.New()

	used, err := svc.FinalizeUsageTx(context.Background(), nil, bookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !used {
		t.Fatal("first finalize must consume the discount")
	}

	again, err := svc.FinalizeUsageTx(context.Background(), nil, bookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again {
		t.Fatal("second finalize must be a no-op")
	}
}

package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/internal/notifications"
	"github.com/kirayahq/kiraya-backend/internal/properties"
	"github.com/kirayahq/kiraya-backend/internal/users"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/config"
	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
	pkgerrors "github.com/kirayahq/kiraya-backend/pkg/errors"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
	"github.com/kirayahq/kiraya-backend/pkg/types"
)

type transitionCall struct {
	id      uuid.UUID
	from    enums.ReservationStatus
	to      enums.ReservationStatus
	updates map[string]any
}

type stubRepo struct {
	findFn       func(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	transitionFn func(ctx context.Context, id uuid.UUID, from, to enums.ReservationStatus, updates map[string]any) (bool, error)

	created     *models.Reservation
	transitions []transitionCall
	updated     map[string]any
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRepo) Create(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	s.created = reservation
	return reservation, nil
}
func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.ReservationStatus, updates map[string]any) (bool, error) {
	s.transitions = append(s.transitions, transitionCall{id: id, from: from, to: to, updates: updates})
	if s.transitionFn != nil {
		return s.transitionFn(ctx, id, from, to, updates)
	}
	return true, nil
}
func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updated = updates
	return nil
}
func (s *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ReservationList, error) {
	return &ReservationList{}, nil
}
func (s *stubRepo) ListByAdvertiser(ctx context.Context, advertiserID uuid.UUID, params pagination.Params) (*ReservationList, error) {
	return &ReservationList{}, nil
}

type stubProperties struct {
	findFn  func(ctx context.Context, id uuid.UUID) (*models.Property, error)
	updates []enums.PropertyStatus
}

func (s *stubProperties) WithTx(tx *gorm.DB) properties.Repository { return s }
func (s *stubProperties) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubProperties) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PropertyStatus) error {
	s.updates = append(s.updates, status)
	return nil
}

type stubUsers struct {
	user *models.User
}

func (s *stubUsers) WithTx(tx *gorm.DB) users.Repository { return s }
func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil {
		return s.user, nil
	}
	return &models.User{ID: id, Email: "tenant@example.com", FirstName: "Amina", LastName: "B"}, nil
}
func (s *stubUsers) IncrementTotalReferrals(ctx context.Context, id uuid.UUID) error { return nil }

type stubRefunds struct {
	requests []*models.RefundRequest
}

func (s *stubRefunds) CreateRefundRequestTx(ctx context.Context, tx *gorm.DB, request *models.RefundRequest) error {
	s.requests = append(s.requests, request)
	return nil
}

type stubDiscounts struct {
	applyFn func(userID, bookingID uuid.UUID, amount decimal.Decimal) (*types.AppliedDiscount, error)
}

func (s *stubDiscounts) ApplyToBookingTx(ctx context.Context, tx *gorm.DB, userID, bookingID uuid.UUID, propertyID *uuid.UUID, propertyName string, amount decimal.Decimal) (*types.AppliedDiscount, error) {
	if s.applyFn != nil {
		return s.applyFn(userID, bookingID, amount)
	}
	return nil, nil
}

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubNotifier struct {
	sent []notifications.NotifyInput
}

func (s *stubNotifier) Notify(ctx context.Context, input notifications.NotifyInput) {
	s.sent = append(s.sent, input)
}

type fixture struct {
	repo       *stubRepo
	properties *stubProperties
	users      *stubUsers
	refunds    *stubRefunds
	discounts  *stubDiscounts
	notify     *stubNotifier
	svc        Service
}

func newFixture(t *testing.T, cfg config.ReservationsConfig) *fixture {
	t.Helper()
	f := &fixture{
		repo:       &stubRepo{},
		properties: &stubProperties{},
		users:      &stubUsers{},
		refunds:    &stubRefunds{},
		discounts:  &stubDiscounts{},
		notify:     &stubNotifier{},
	}
	svc, err := NewService(f.repo, f.properties, f.users, f.refunds, f.discounts, fakeTx{}, f.notify, nil, cfg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	f.svc = svc
	return f
}

func reservationFixture(tenantID, propertyID uuid.UUID, status enums.ReservationStatus) *models.Reservation {
	return &models.Reservation{
		ID:            uuid.New(),
		UserID:        tenantID,
		PropertyID:    &propertyID,
		Status:        status,
		PaymentStatus: enums.ReservationPaymentStatusPending,
		Price:         decimal.NewFromInt(4000),
		ServiceFee:    decimal.NewFromInt(400),
		TotalPrice:    decimal.NewFromInt(4400),
	}
}

func TestCreateRequiresAuthentication(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	_, err := f.svc.Create(context.Background(), auth.Identity{}, CreateInput{PropertyID: uuid.New()})
	if err == nil {
		t.Fatal("expected error for anonymous caller")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateStartsPendingAndNotifiesAdvertiser(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	ownerID := uuid.New()
	propertyID := uuid.New()
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: ownerID, Title: "Riad Central"}, nil
	}

	created, err := f.svc.Create(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, CreateInput{
		PropertyID: propertyID,
		Price:      decimal.NewFromInt(4000),
		ServiceFee: decimal.NewFromInt(400),
		TotalPrice: decimal.NewFromInt(4400),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != enums.ReservationStatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.Occupants != 1 {
		t.Fatalf("expected occupants to default to 1, got %d", created.Occupants)
	}
	if created.TenantName == nil || *created.TenantName != "Amina B" {
		t.Fatal("tenant name not defaulted from profile")
	}
	if len(f.notify.sent) != 1 || f.notify.sent[0].UserID != ownerID {
		t.Fatal("expected advertiser notification")
	}
}

func TestCreateAppliesReferralDiscount(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	propertyID := uuid.New()
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: uuid.New(), Title: "Riad Central"}, nil
	}
	applied := &types.AppliedDiscount{Amount: decimal.NewFromInt(200), Code: "REF123", AppliedAt: time.Now().UTC()}
	f.discounts.applyFn = func(userID, bookingID uuid.UUID, amount decimal.Decimal) (*types.AppliedDiscount, error) {
		if userID != tenantID {
			t.Fatalf("discount applied for wrong user %s", userID)
		}
		return applied, nil
	}

	code := "REF123"
	created, err := f.svc.Create(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, CreateInput{
		PropertyID:   propertyID,
		TotalPrice:   decimal.NewFromInt(4400),
		ReferralCode: &code,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Discount == nil || created.Discount.Code != "REF123" {
		t.Fatal("expected discount snapshot on reservation")
	}
	if f.repo.updated == nil {
		t.Fatal("expected discount column update")
	}
}

func TestApproveMarksPropertyOccupied(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	ownerID := uuid.New()
	propertyID := uuid.New()
	reservation := reservationFixture(uuid.New(), propertyID, enums.ReservationStatusPending)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: ownerID}, nil
	}

	err := f.svc.Approve(context.Background(), auth.Identity{UserID: ownerID, Role: enums.UserRoleAdvertiser}, reservation.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.repo.transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(f.repo.transitions))
	}
	call := f.repo.transitions[0]
	if call.from != enums.ReservationStatusPending || call.to != enums.ReservationStatusAccepted {
		t.Fatalf("expected pending -> accepted, got %s -> %s", call.from, call.to)
	}
	if len(f.properties.updates) != 1 || f.properties.updates[0] != enums.PropertyStatusOccupied {
		t.Fatal("expected property marked occupied")
	}
	if len(f.notify.sent) != 1 || f.notify.sent[0].UserID != reservation.UserID {
		t.Fatal("expected tenant notification")
	}
}

func TestApproveAlreadyAccepted(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	ownerID := uuid.New()
	propertyID := uuid.New()
	reservation := reservationFixture(uuid.New(), propertyID, enums.ReservationStatusAccepted)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: ownerID}, nil
	}

	err := f.svc.Approve(context.Background(), auth.Identity{UserID: ownerID, Role: enums.UserRoleAdvertiser}, reservation.ID)
	if err == nil {
		t.Fatal("expected error for repeated approval")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(f.repo.transitions) != 0 {
		t.Fatal("no transition should be attempted")
	}
}

func TestApproveByNonOwnerForbidden(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	propertyID := uuid.New()
	reservation := reservationFixture(uuid.New(), propertyID, enums.ReservationStatusPending)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: uuid.New()}, nil
	}

	err := f.svc.Approve(context.Background(), auth.Identity{UserID: uuid.New(), Role: enums.UserRoleAdvertiser}, reservation.ID)
	if err == nil {
		t.Fatal("expected error for non-owner")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestApproveSurfacesConcurrentConflict(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	ownerID := uuid.New()
	propertyID := uuid.New()
	reservation := reservationFixture(uuid.New(), propertyID, enums.ReservationStatusPending)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }
	f.repo.transitionFn = func(ctx context.Context, id uuid.UUID, from, to enums.ReservationStatus, updates map[string]any) (bool, error) {
		// another writer moved the row first
		return false, nil
	}
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: ownerID}, nil
	}

	err := f.svc.Approve(context.Background(), auth.Identity{UserID: ownerID, Role: enums.UserRoleAdvertiser}, reservation.ID)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRejectWithCounterOffer(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	ownerID := uuid.New()
	propertyID := uuid.New()
	reservation := reservationFixture(uuid.New(), propertyID, enums.ReservationStatusPending)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: ownerID}, nil
	}

	suggested := time.Now().UTC().AddDate(0, 1, 0)
	err := f.svc.Reject(context.Background(), auth.Identity{UserID: ownerID, Role: enums.UserRoleAdvertiser}, reservation.ID, RejectInput{
		Reason:              enums.RejectionReasonMoveInDateTooFar,
		SuggestedMoveInDate: &suggested,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.repo.transitions[0]
	if call.to != enums.ReservationStatusCounterOfferPendingTenant {
		t.Fatalf("expected counter-offer status, got %s", call.to)
	}
	if _, ok := call.updates["counter_offer_move_in_date"]; !ok {
		t.Fatal("expected counter-offer date in updates")
	}
	if len(f.notify.sent) != 1 || f.notify.sent[0].Type != enums.NotificationTypeCounterOffer {
		t.Fatal("expected counter-offer notification")
	}
}

func TestRejectWithoutCounterOfferIsFinal(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	ownerID := uuid.New()
	propertyID := uuid.New()
	reservation := reservationFixture(uuid.New(), propertyID, enums.ReservationStatusPending)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: ownerID}, nil
	}

	err := f.svc.Reject(context.Background(), auth.Identity{UserID: ownerID, Role: enums.UserRoleAdvertiser}, reservation.ID, RejectInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.repo.transitions[0]
	if call.to != enums.ReservationStatusRejected {
		t.Fatalf("expected rejected, got %s", call.to)
	}
	if call.updates["rejection_reason"] != string(enums.RejectionReasonUnspecified) {
		t.Fatal("expected unspecified rejection reason")
	}
}

func TestRespondToCounterOfferAccept(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	propertyID := uuid.New()
	reservation := reservationFixture(tenantID, propertyID, enums.ReservationStatusCounterOfferPendingTenant)
	counterDate := time.Now().UTC().AddDate(0, 2, 0)
	reservation.CounterOfferMoveInDate = &counterDate
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }

	err := f.svc.RespondToCounterOffer(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.repo.transitions[0]
	if call.to != enums.ReservationStatusAcceptedCounterOffer {
		t.Fatalf("expected accepted_counter_offer, got %s", call.to)
	}
	if call.updates["scheduled_date"] != counterDate {
		t.Fatal("expected scheduled date moved to counter-offer date")
	}
}

func TestRespondToCounterOfferDecline(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := reservationFixture(tenantID, uuid.New(), enums.ReservationStatusCounterOfferPendingTenant)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }

	err := f.svc.RespondToCounterOffer(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repo.transitions[0].to != enums.ReservationStatusRejectedCounterOffer {
		t.Fatalf("expected rejected_counter_offer, got %s", f.repo.transitions[0].to)
	}
}

func TestMarkPaidRequiresAcceptance(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := reservationFixture(tenantID, uuid.New(), enums.ReservationStatusPending)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }

	err := f.svc.MarkPaid(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if err == nil {
		t.Fatal("expected error paying a pending reservation")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestMarkPaidSetsPaymentStatus(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := reservationFixture(tenantID, uuid.New(), enums.ReservationStatusAccepted)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }

	err := f.svc.MarkPaid(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := f.repo.transitions[0]
	if call.to != enums.ReservationStatusPaid {
		t.Fatalf("expected paid, got %s", call.to)
	}
	if call.updates["payment_status"] != enums.ReservationPaymentStatusPaid {
		t.Fatal("expected payment status update")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := reservationFixture(tenantID, uuid.New(), enums.ReservationStatusCancelled)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }

	if err := f.svc.Cancel(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID); err != nil {
		t.Fatalf("cancelling a cancelled reservation must be a no-op, got %v", err)
	}
	if len(f.repo.transitions) != 0 {
		t.Fatal("no transition should be attempted")
	}
	if len(f.refunds.requests) != 0 {
		t.Fatal("no refund request should be created")
	}
}

func TestCancelCreatesAutoApprovedRefund(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	ownerID := uuid.New()
	propertyID := uuid.New()
	reservation := reservationFixture(tenantID, propertyID, enums.ReservationStatusPending)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }
	f.properties.findFn = func(ctx context.Context, id uuid.UUID) (*models.Property, error) {
		return &models.Property{ID: propertyID, OwnerID: ownerID, Status: enums.PropertyStatusOccupied}, nil
	}

	err := f.svc.Cancel(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.repo.transitions[0].to != enums.ReservationStatusCancelled {
		t.Fatalf("expected cancelled, got %s", f.repo.transitions[0].to)
	}
	if len(f.refunds.requests) != 1 {
		t.Fatalf("expected 1 refund request, got %d", len(f.refunds.requests))
	}
	refund := f.refunds.requests[0]
	if !refund.AutoApproved || refund.Status != enums.RefundRequestStatusApproved {
		t.Fatal("cancellation refund must be auto-approved")
	}
	if !refund.Amount.Equal(reservation.TotalPrice) {
		t.Fatalf("expected full refund %s, got %s", reservation.TotalPrice, refund.Amount)
	}
	if len(f.properties.updates) != 1 || f.properties.updates[0] != enums.PropertyStatusAvailable {
		t.Fatal("expected property released")
	}
}

func TestCancelLenientAllowsPaid(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{StrictCancellation: false})
	tenantID := uuid.New()
	reservation := reservationFixture(tenantID, uuid.New(), enums.ReservationStatusPaid)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }

	if err := f.svc.Cancel(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelStrictRefusesPaid(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{StrictCancellation: true})
	tenantID := uuid.New()
	reservation := reservationFixture(tenantID, uuid.New(), enums.ReservationStatusPaid)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }

	err := f.svc.Cancel(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if err == nil {
		t.Fatal("expected error in strict mode")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCancelRefusesTerminal(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := reservationFixture(tenantID, uuid.New(), enums.ReservationStatusRefundCompleted)
	f.repo.findFn = func(ctx context.Context, id uuid.UUID) (*models.Reservation, error) { return reservation, nil }

	err := f.svc.Cancel(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if err == nil {
		t.Fatal("expected error cancelling a closed reservation")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

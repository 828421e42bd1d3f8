package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/internal/notifications"
	"github.com/kirayahq/kiraya-backend/internal/properties"
	"github.com/kirayahq/kiraya-backend/internal/reservations"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/config"
	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
)

type stubReservationsRepo struct {
	reservation  *models.Reservation
	transitionOK bool
	transitioned []enums.ReservationStatus
}

func (s *stubReservationsRepo) WithTx(tx *gorm.DB) reservations.Repository { return s }
func (s *stubReservationsRepo) Create(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	return reservation, nil
}
func (s *stubReservationsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	if s.reservation != nil {
		return s.reservation, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubReservationsRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.ReservationStatus, updates map[string]any) (bool, error) {
	s.transitioned = append(s.transitioned, to)
	return s.transitionOK, nil
}
func (s *stubReservationsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}
func (s *stubReservationsRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*reservations.ReservationList, error) {
	return &reservations.ReservationList{}, nil
}
func (s *stubReservationsRepo) ListByAdvertiser(ctx context.Context, advertiserID uuid.UUID, params pagination.Params) (*reservations.ReservationList, error) {
	return &reservations.ReservationList{}, nil
}

type stubPropertiesRepo struct {
	property *models.Property
}

func (s *stubPropertiesRepo) WithTx(tx *gorm.DB) properties.Repository { return s }
func (s *stubPropertiesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if s.property != nil {
		return s.property, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubPropertiesRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PropertyStatus) error {
	return nil
}

type stubPaymentsRepo struct {
	payment        *models.Payment
	createdPayment *models.Payment
	createdPayout  *models.PendingPayout
}

func (s *stubPaymentsRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubPaymentsRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	s.createdPayment = payment
	return payment, nil
}
func (s *stubPaymentsRepo) FindPaymentByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Payment, error) {
	if s.payment != nil {
		return s.payment, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubPaymentsRepo) CreatePendingPayout(ctx context.Context, payout *models.PendingPayout) (*models.PendingPayout, error) {
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	s.createdPayout = payout
	return payout, nil
}
func (s *stubPaymentsRepo) FindPayoutByReservation(ctx context.Context, reservationID uuid.UUID) (*models.PendingPayout, error) {
	if s.createdPayout != nil {
		return s.createdPayout, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubPaymentsRepo) ListUserPayments(ctx context.Context, userID uuid.UUID, params pagination.Params) (*UserPaymentList, error) {
	return &UserPaymentList{}, nil
}

type stubFinalizer struct {
	calls int
	used  bool
}

func (s *stubFinalizer) FinalizeUsageTx(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error) {
	s.calls++
	if s.used {
		return false, nil
	}
	s.used = true
	return true, nil
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
	repo         *stubPaymentsRepo
	reservations *stubReservationsRepo
	properties   *stubPropertiesRepo
	finalizer    *stubFinalizer
	notify       *stubNotifier
	svc          *service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:         &stubPaymentsRepo{},
		reservations: &stubReservationsRepo{transitionOK: true},
		properties:   &stubPropertiesRepo{},
		finalizer:    &stubFinalizer{},
		notify:       &stubNotifier{},
	}
	svc, err := NewService(f.repo, f.reservations, f.properties, f.finalizer, fakeTx{}, f.notify, nil, config.PayoutsConfig{
		SafetyWindow: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	f.svc = svc.(*service)
	return f
}

func paidableReservation(tenantID, propertyID uuid.UUID, status enums.ReservationStatus) *models.Reservation {
	return &models.Reservation{
		ID:         uuid.New(),
		UserID:     tenantID,
		PropertyID: &propertyID,
		Status:     status,
		TotalPrice: decimal.NewFromInt(4400),
		ServiceFee: decimal.NewFromInt(400),
	}
}

func TestProcessPaymentSucceeds(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	ownerID := uuid.New()
	propertyID := uuid.New()
	f.reservations.reservation = paidableReservation(tenantID, propertyID, enums.ReservationStatusAccepted)
	f.properties.property = &models.Property{ID: propertyID, OwnerID: ownerID}

	result := f.svc.ProcessPayment(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, f.reservations.reservation.ID)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.PaymentID == nil {
		t.Fatal("expected payment id in result")
	}

	payment := f.repo.createdPayment
	if payment == nil {
		t.Fatal("expected payment row")
	}
	if payment.Status != enums.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %s", payment.Status)
	}
	if payment.AdvertiserStatus != enums.SettlementStatusPending {
		t.Fatalf("advertiser settlement must start pending, got %s", payment.AdvertiserStatus)
	}
	if !payment.Amount.Equal(f.reservations.reservation.TotalPrice) {
		t.Fatalf("expected amount %s, got %s", f.reservations.reservation.TotalPrice, payment.Amount)
	}
	if payment.TransactionID == "" {
		t.Fatal("expected transaction id")
	}
	if len(f.reservations.transitioned) != 1 || f.reservations.transitioned[0] != enums.ReservationStatusPaid {
		t.Fatal("expected transition to paid")
	}
	if f.finalizer.calls != 1 {
		t.Fatalf("expected discount finalization, got %d calls", f.finalizer.calls)
	}
	if len(f.notify.sent) != 1 || f.notify.sent[0].UserID != ownerID {
		t.Fatal("expected advertiser notification")
	}
}

func TestProcessPaymentAlreadyPaid(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	propertyID := uuid.New()
	f.reservations.reservation = paidableReservation(tenantID, propertyID, enums.ReservationStatusPaid)

	result := f.svc.ProcessPayment(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, f.reservations.reservation.ID)
	if result.Success {
		t.Fatal("expected failure on second payment")
	}
	if result.Error != "reservation already paid" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
	if f.repo.createdPayment != nil {
		t.Fatal("no payment row should be created")
	}
}

func TestProcessPaymentRequiresAcceptance(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	f.reservations.reservation = paidableReservation(tenantID, uuid.New(), enums.ReservationStatusPending)

	result := f.svc.ProcessPayment(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, f.reservations.reservation.ID)
	if result.Success {
		t.Fatal("expected failure for pending reservation")
	}
	if result.Error != "reservation not accepted" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
}

func TestProcessPaymentWrongTenant(t *testing.T) {
	f := newFixture(t)
	f.reservations.reservation = paidableReservation(uuid.New(), uuid.New(), enums.ReservationStatusAccepted)

	result := f.svc.ProcessPayment(context.Background(), auth.Identity{UserID: uuid.New(), Role: enums.UserRoleClient}, f.reservations.reservation.ID)
	if result.Success {
		t.Fatal("expected failure for foreign reservation")
	}
	if result.Error != "reservation does not belong to caller" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
}

func TestProcessPaymentConcurrentConflict(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	ownerID := uuid.New()
	propertyID := uuid.New()
	f.reservations.reservation = paidableReservation(tenantID, propertyID, enums.ReservationStatusAccepted)
	f.reservations.transitionOK = false
	f.properties.property = &models.Property{ID: propertyID, OwnerID: ownerID}

	result := f.svc.ProcessPayment(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, f.reservations.reservation.ID)
	if result.Success {
		t.Fatal("expected failure when the row moved under us")
	}
	if result.Error != "reservation changed concurrently" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
}

func TestHandleMoveInSchedulesPayout(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	ownerID := uuid.New()
	propertyID := uuid.New()
	reservation := paidableReservation(tenantID, propertyID, enums.ReservationStatusPaid)
	f.reservations.reservation = reservation
	f.properties.property = &models.Property{ID: propertyID, OwnerID: ownerID}
	f.repo.payment = &models.Payment{ID: uuid.New(), ReservationID: reservation.ID}

	movedInAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return movedInAt }

	result := f.svc.HandleMoveIn(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}

	payout := f.repo.createdPayout
	if payout == nil {
		t.Fatal("expected pending payout")
	}
	if payout.Status != enums.PayoutStatusPending {
		t.Fatalf("expected pending payout, got %s", payout.Status)
	}
	if !payout.ScheduledReleaseDate.Equal(movedInAt.Add(24 * time.Hour)) {
		t.Fatalf("expected release 24h after move-in, got %s", payout.ScheduledReleaseDate)
	}
	if payout.PaymentID != f.repo.payment.ID {
		t.Fatal("payout must reference the payment")
	}
	if !payout.Amount.Equal(reservation.TotalPrice) {
		t.Fatalf("expected payout amount %s, got %s", reservation.TotalPrice, payout.Amount)
	}
	if len(f.reservations.transitioned) != 1 || f.reservations.transitioned[0] != enums.ReservationStatusMovedIn {
		t.Fatal("expected transition to movedIn")
	}
}

func TestHandleMoveInWithoutPaymentRecord(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	propertyID := uuid.New()
	reservation := paidableReservation(tenantID, propertyID, enums.ReservationStatusPaid)
	f.reservations.reservation = reservation
	f.properties.property = &models.Property{ID: propertyID, OwnerID: uuid.New()}

	result := f.svc.HandleMoveIn(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if result.Success {
		t.Fatal("expected failure without a payment row")
	}
	if result.Error != "no payment recorded for reservation" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
	if f.repo.createdPayout != nil {
		t.Fatal("no payout should be scheduled")
	}
}

func TestHandleMoveInBeforePayment(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	reservation := paidableReservation(tenantID, uuid.New(), enums.ReservationStatusAccepted)
	f.reservations.reservation = reservation

	result := f.svc.HandleMoveIn(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if result.Success {
		t.Fatal("expected failure before payment")
	}
	if result.Error != "reservation not paid" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
}

func TestHandleMoveInTwice(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	reservation := paidableReservation(tenantID, uuid.New(), enums.ReservationStatusMovedIn)
	f.reservations.reservation = reservation

	result := f.svc.HandleMoveIn(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID)
	if result.Success {
		t.Fatal("expected failure on repeated move-in")
	}
	if result.Error != "move-in already confirmed" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
}

func TestProcessPaymentAnonymous(t *testing.T) {
	f := newFixture(t)
	result := f.svc.ProcessPayment(context.Background(), auth.Identity{}, uuid.New())
	if result.Success {
		t.Fatal("expected failure for anonymous caller")
	}
	if result.Error != "authentication required" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
}

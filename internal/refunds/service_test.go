package refunds

import (
	"context"
	"testing"

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
	pkgerrors "github.com/kirayahq/kiraya-backend/pkg/errors"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
	"github.com/kirayahq/kiraya-backend/pkg/types"
)

type stubRefundsRepo struct {
	open     *models.RefundRequest
	requests []*models.RefundRequest
}

func (s *stubRefundsRepo) WithTx(tx *gorm.DB) Repository { return s }
func (s *stubRefundsRepo) Create(ctx context.Context, request *models.RefundRequest) error {
	s.requests = append(s.requests, request)
	return nil
}
func (s *stubRefundsRepo) CreateRefundRequestTx(ctx context.Context, tx *gorm.DB, request *models.RefundRequest) error {
	s.requests = append(s.requests, request)
	return nil
}
func (s *stubRefundsRepo) FindOpenByReservation(ctx context.Context, reservationID uuid.UUID) (*models.RefundRequest, error) {
	if s.open != nil {
		return s.open, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubRefundsRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*RefundRequestList, error) {
	return &RefundRequestList{}, nil
}

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
	updates  []enums.PropertyStatus
}

func (s *stubPropertiesRepo) WithTx(tx *gorm.DB) properties.Repository { return s }
func (s *stubPropertiesRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if s.property != nil {
		return s.property, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubPropertiesRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.PropertyStatus) error {
	s.updates = append(s.updates, status)
	return nil
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
	repo         *stubRefundsRepo
	reservations *stubReservationsRepo
	properties   *stubPropertiesRepo
	notify       *stubNotifier
	svc          Service
}

func newFixture(t *testing.T, cfg config.ReservationsConfig) *fixture {
	t.Helper()
	f := &fixture{
		repo:         &stubRefundsRepo{},
		reservations: &stubReservationsRepo{transitionOK: true},
		properties:   &stubPropertiesRepo{},
		notify:       &stubNotifier{},
	}
	svc, err := NewService(f.repo, f.reservations, f.properties, fakeTx{}, f.notify, nil, cfg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	f.svc = svc
	return f
}

func movedInReservation(tenantID, propertyID uuid.UUID) *models.Reservation {
	return &models.Reservation{
		ID:         uuid.New(),
		UserID:     tenantID,
		PropertyID: &propertyID,
		Status:     enums.ReservationStatusMovedIn,
		TotalPrice: decimal.NewFromInt(4400),
		ServiceFee: decimal.NewFromInt(400),
	}
}

func TestRequestRefundRequiresMoveIn(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := movedInReservation(tenantID, uuid.New())
	reservation.Status = enums.ReservationStatusPaid
	f.reservations.reservation = reservation

	err := f.svc.RequestRefund(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID, nil)
	if err == nil {
		t.Fatal("expected error before move-in")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRequestRefundTransitionsAndRecords(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	ownerID := uuid.New()
	propertyID := uuid.New()
	reservation := movedInReservation(tenantID, propertyID)
	f.reservations.reservation = reservation
	f.properties.property = &models.Property{ID: propertyID, OwnerID: ownerID, Status: enums.PropertyStatusOccupied}

	details := &RefundDetails{
		Reasons:         types.RefundReasons{"property not as described"},
		RequestedAmount: decimal.NewFromInt(4000),
		OriginalAmount:  decimal.NewFromInt(4400),
		ServiceFee:      decimal.NewFromInt(400),
	}
	err := f.svc.RequestRefund(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID, details)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.reservations.transitioned) != 1 || f.reservations.transitioned[0] != enums.ReservationStatusRefundProcessing {
		t.Fatal("expected transition to refundProcessing")
	}
	if len(f.repo.requests) != 1 {
		t.Fatalf("expected 1 refund request, got %d", len(f.repo.requests))
	}
	request := f.repo.requests[0]
	if request.Status != enums.RefundRequestStatusPending || request.AutoApproved {
		t.Fatal("post-move-in refund must await review")
	}
	if len(f.properties.updates) != 1 || f.properties.updates[0] != enums.PropertyStatusAvailable {
		t.Fatal("expected property released")
	}
	if len(f.notify.sent) != 1 || f.notify.sent[0].UserID != ownerID {
		t.Fatal("expected advertiser notification")
	}
}

func TestRequestRefundWithoutDetails(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	propertyID := uuid.New()
	f.reservations.reservation = movedInReservation(tenantID, propertyID)
	f.properties.property = &models.Property{ID: propertyID, OwnerID: uuid.New()}

	err := f.svc.RequestRefund(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, f.reservations.reservation.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.repo.requests) != 0 {
		t.Fatal("no review row expected without details")
	}
	if len(f.reservations.transitioned) != 1 {
		t.Fatal("expected status transition")
	}
}

func TestRequestRefundRejectsOpenRequest(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := movedInReservation(tenantID, uuid.New())
	f.reservations.reservation = reservation
	f.repo.open = &models.RefundRequest{ID: uuid.New(), ReservationID: reservation.ID}

	err := f.svc.RequestRefund(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, reservation.ID, nil)
	if err == nil {
		t.Fatal("expected error with an open request")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(f.reservations.transitioned) != 0 {
		t.Fatal("no transition should be attempted")
	}
}

func TestStandardCancellationRecordsProcessing(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	propertyID := uuid.New()
	reservation := movedInReservation(tenantID, propertyID)
	reservation.Status = enums.ReservationStatusPaid
	f.reservations.reservation = reservation
	f.properties.property = &models.Property{ID: propertyID, OwnerID: uuid.New()}

	err := f.svc.ProcessStandardCancellation(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, StandardCancellationInput{
		ReservationID:   reservation.ID,
		Reason:          "found another place",
		DaysToMoveIn:    10,
		RefundAmount:    decimal.NewFromInt(3600),
		OriginalAmount:  decimal.NewFromInt(4400),
		ServiceFee:      decimal.NewFromInt(400),
		CancellationFee: decimal.NewFromInt(400),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.repo.requests) != 1 {
		t.Fatalf("expected 1 refund request, got %d", len(f.repo.requests))
	}
	request := f.repo.requests[0]
	if request.Status != enums.RefundRequestStatusProcessing {
		t.Fatalf("expected processing status, got %s", request.Status)
	}
	if request.CancellationFee == nil || !request.CancellationFee.Equal(decimal.NewFromInt(400)) {
		t.Fatal("expected cancellation fee recorded")
	}
	if request.DaysToMoveIn == nil || *request.DaysToMoveIn != 10 {
		t.Fatal("expected days-to-move-in recorded")
	}
	if len(f.properties.updates) != 1 || f.properties.updates[0] != enums.PropertyStatusAvailable {
		t.Fatal("expected property released")
	}
}

func TestStandardCancellationAmountMismatch(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := movedInReservation(tenantID, uuid.New())
	reservation.Status = enums.ReservationStatusPaid
	f.reservations.reservation = reservation

	err := f.svc.ProcessStandardCancellation(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, StandardCancellationInput{
		ReservationID:   reservation.ID,
		RefundAmount:    decimal.NewFromInt(4400),
		OriginalAmount:  decimal.NewFromInt(4400),
		ServiceFee:      decimal.NewFromInt(400),
		CancellationFee: decimal.NewFromInt(400),
	})
	if err == nil {
		t.Fatal("expected error for inflated refund amount")
	}
	appErr := pkgerrors.As(err)
	if appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.requests) != 0 {
		t.Fatal("no refund request should be recorded")
	}
}

func TestStandardCancellationNegativeRefund(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{})
	tenantID := uuid.New()
	reservation := movedInReservation(tenantID, uuid.New())
	reservation.Status = enums.ReservationStatusPaid
	f.reservations.reservation = reservation

	err := f.svc.ProcessStandardCancellation(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, StandardCancellationInput{
		ReservationID:   reservation.ID,
		RefundAmount:    decimal.NewFromInt(-50),
		OriginalAmount:  decimal.NewFromInt(100),
		ServiceFee:      decimal.NewFromInt(150),
		CancellationFee: decimal.Zero,
	})
	if err == nil {
		t.Fatal("expected error for negative refund")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStandardCancellationStrictRequiresPaid(t *testing.T) {
	f := newFixture(t, config.ReservationsConfig{StrictCancellation: true})
	tenantID := uuid.New()
	reservation := movedInReservation(tenantID, uuid.New())
	reservation.Status = enums.ReservationStatusPending
	f.reservations.reservation = reservation

	err := f.svc.ProcessStandardCancellation(context.Background(), auth.Identity{UserID: tenantID, Role: enums.UserRoleClient}, StandardCancellationInput{
		ReservationID: reservation.ID,
	})
	if err == nil {
		t.Fatal("expected error in strict mode")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

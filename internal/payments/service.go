package payments

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/internal/notifications"
	"github.com/kirayahq/kiraya-backend/internal/properties"
	"github.com/kirayahq/kiraya-backend/internal/reservations"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/config"
	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
	pkgerrors "github.com/kirayahq/kiraya-backend/pkg/errors"
	"github.com/kirayahq/kiraya-backend/pkg/metrics"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(ctx context.Context, input notifications.NotifyInput)
}

// discountFinalizer consumes the referral discount attached to a booking
// once that booking is paid.
type discountFinalizer interface {
	FinalizeUsageTx(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) (bool, error)
}

// Service is the money-moving half of the lifecycle engine. ProcessPayment
// and HandleMoveIn keep the source contract of never returning an error to
// the caller; every failure folds into the result object.
type Service interface {
	ProcessPayment(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) PaymentResult
	HandleMoveIn(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) MoveInResult
	ListUserPayments(ctx context.Context, identity auth.Identity, params pagination.Params) (*UserPaymentList, error)
}

type service struct {
	repo         Repository
	reservations reservations.Repository
	properties   properties.Repository
	discounts    discountFinalizer
	tx           txRunner
	notify       notifier
	metrics      *metrics.LifecycleMetrics
	cfg          config.PayoutsConfig

	now  func() time.Time
	rand func(n int) int
}

// NewService builds the payment and payout service.
func NewService(
	repo Repository,
	reservationRepo reservations.Repository,
	propertyRepo properties.Repository,
	discounts discountFinalizer,
	tx txRunner,
	notify notifier,
	lifecycleMetrics *metrics.LifecycleMetrics,
	cfg config.PayoutsConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if reservationRepo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	if propertyRepo == nil {
		return nil, fmt.Errorf("properties repository required")
	}
	if discounts == nil {
		return nil, fmt.Errorf("discount finalizer required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if cfg.SafetyWindow <= 0 {
		return nil, fmt.Errorf("payout safety window must be positive")
	}
	return &service{
		repo:         repo,
		reservations: reservationRepo,
		properties:   propertyRepo,
		discounts:    discounts,
		tx:           tx,
		notify:       notify,
		metrics:      lifecycleMetrics,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
		rand:         rand.Intn,
	}, nil
}

func (s *service) ProcessPayment(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) PaymentResult {
	paymentID, err := s.processPayment(ctx, identity, reservationID)
	if err != nil {
		s.metrics.IncPayment("failed")
		return PaymentResult{Success: false, Error: publicMessage(err)}
	}
	s.metrics.IncPayment("succeeded")
	return PaymentResult{Success: true, PaymentID: &paymentID}
}

func (s *service) processPayment(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) (uuid.UUID, error) {
	if identity.IsZero() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if reservationID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	var paymentID uuid.UUID
	var advertiserID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		reservationRepo := s.reservations.WithTx(tx)
		reservation, err := reservationRepo.FindByID(ctx, reservationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}
		if reservation.UserID != identity.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "reservation does not belong to caller")
		}
		if err := reservations.ValidateTransition(reservation.Status, enums.ReservationStatusPaid); err != nil {
			if reservations.IsSameStatus(err) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already paid")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation not accepted")
		}
		if reservation.PropertyID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "reservation has no property")
		}

		property, err := s.properties.WithTx(tx).FindByID(ctx, *reservation.PropertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
		}
		if property.OwnerID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "property has no owner")
		}
		advertiserID = property.OwnerID

		now := s.now()
		payment := &models.Payment{
			ReservationID:    reservation.ID,
			PropertyID:       property.ID,
			UserID:           reservation.UserID,
			AdvertiserID:     property.OwnerID,
			Amount:           reservation.TotalPrice,
			Currency:         enums.CurrencyMAD,
			Status:           enums.PaymentStatusCompleted,
			AdvertiserStatus: enums.SettlementStatusPending,
			PaymentMethod:    enums.PaymentMethodCard,
			TransactionID:    s.newTransactionID(now),
			PaymentDate:      now,
		}
		if _, err := s.repo.WithTx(tx).CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}

		ok, err := reservationRepo.TransitionStatus(ctx, reservation.ID, reservation.Status, enums.ReservationStatusPaid, map[string]any{
			"payment_status": enums.ReservationPaymentStatusPaid,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark reservation paid")
		}
		if !ok {
			s.metrics.IncConflict("process_payment")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}

		// consume the referral discount attached at checkout, if any
		if _, err := s.discounts.FinalizeUsageTx(ctx, tx, reservation.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize referral discount")
		}

		paymentID = payment.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.notify.Notify(ctx, notifications.NotifyInput{
		UserID:  advertiserID,
		Role:    enums.UserRoleAdvertiser,
		Type:    enums.NotificationTypePaymentReceived,
		Title:   "Payment received",
		Message: "The tenant paid for their reservation.",
	})
	return paymentID, nil
}

func (s *service) HandleMoveIn(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) MoveInResult {
	if err := s.handleMoveIn(ctx, identity, reservationID); err != nil {
		return MoveInResult{Success: false, Error: publicMessage(err)}
	}
	return MoveInResult{Success: true}
}

func (s *service) handleMoveIn(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error {
	if identity.IsZero() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if reservationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	var advertiserID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		reservationRepo := s.reservations.WithTx(tx)
		reservation, err := reservationRepo.FindByID(ctx, reservationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}
		if reservation.UserID != identity.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "reservation does not belong to caller")
		}
		if err := reservations.ValidateTransition(reservation.Status, enums.ReservationStatusMovedIn); err != nil {
			if reservations.IsSameStatus(err) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "move-in already confirmed")
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation not paid")
		}
		if reservation.PropertyID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "reservation has no property")
		}

		property, err := s.properties.WithTx(tx).FindByID(ctx, *reservation.PropertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
		}
		advertiserID = property.OwnerID

		repo := s.repo.WithTx(tx)
		payment, err := repo.FindPaymentByReservation(ctx, reservation.ID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "no payment recorded for reservation")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}

		movedInAt := s.now()
		ok, err := reservationRepo.TransitionStatus(ctx, reservation.ID, reservation.Status, enums.ReservationStatusMovedIn, map[string]any{
			"moved_in":    true,
			"moved_in_at": movedInAt,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm move-in")
		}
		if !ok {
			s.metrics.IncConflict("move_in")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}

		payout := &models.PendingPayout{
			ReservationID:        reservation.ID,
			PropertyID:           property.ID,
			UserID:               reservation.UserID,
			AdvertiserID:         property.OwnerID,
			PaymentID:            payment.ID,
			Amount:               reservation.TotalPrice,
			Currency:             enums.CurrencyMAD,
			Status:               enums.PayoutStatusPending,
			ScheduledReleaseDate: movedInAt.Add(s.cfg.SafetyWindow),
		}
		if _, err := repo.CreatePendingPayout(ctx, payout); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "schedule payout")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncPayoutScheduled()
	s.notify.Notify(ctx, notifications.NotifyInput{
		UserID:  advertiserID,
		Role:    enums.UserRoleAdvertiser,
		Type:    enums.NotificationTypeMoveInConfirmed,
		Title:   "Move-in confirmed",
		Message: "The tenant confirmed move-in. Your payout is scheduled.",
	})
	return nil
}

func (s *service) ListUserPayments(ctx context.Context, identity auth.Identity, params pagination.Params) (*UserPaymentList, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	list, err := s.repo.ListUserPayments(ctx, identity.UserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return list, nil
}

func (s *service) newTransactionID(now time.Time) string {
	return fmt.Sprintf("txn_%d_%d", now.UnixMilli(), s.rand(1000))
}

func publicMessage(err error) string {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr.Message()
	}
	return "payment processing failed"
}

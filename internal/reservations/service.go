package reservations

import (
	"context"
	"fmt"
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
	"github.com/kirayahq/kiraya-backend/pkg/metrics"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
	"github.com/kirayahq/kiraya-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(ctx context.Context, input notifications.NotifyInput)
}

// refundRecorder writes refund request rows inside the caller's transaction.
type refundRecorder interface {
	CreateRefundRequestTx(ctx context.Context, tx *gorm.DB, request *models.RefundRequest) error
}

// discountApplier stamps a tenant's active referral discount onto a booking
// and returns its face value, or zero when the tenant has none.
type discountApplier interface {
	ApplyToBookingTx(ctx context.Context, tx *gorm.DB, userID, bookingID uuid.UUID, propertyID *uuid.UUID, propertyName string, amount decimal.Decimal) (*types.AppliedDiscount, error)
}

// Service owns the reservation state machine. Every mutation validates the
// move against the transition table, then applies it as a conditional update
// on the observed prior status so racing writers surface as conflicts.
type Service interface {
	Create(ctx context.Context, identity auth.Identity, input CreateInput) (*models.Reservation, error)
	Approve(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error
	Reject(ctx context.Context, identity auth.Identity, reservationID uuid.UUID, input RejectInput) error
	RespondToCounterOffer(ctx context.Context, identity auth.Identity, reservationID uuid.UUID, accept bool) error
	MarkPaid(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error
	ConfirmMoveIn(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error
	Cancel(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error
	Get(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) (*models.Reservation, error)
	ListForTenant(ctx context.Context, identity auth.Identity, params pagination.Params) (*ReservationList, error)
	ListForAdvertiser(ctx context.Context, identity auth.Identity, params pagination.Params) (*ReservationList, error)
}

type service struct {
	repo       Repository
	properties properties.Repository
	users      users.Repository
	refunds    refundRecorder
	discounts  discountApplier
	tx         txRunner
	notify     notifier
	metrics    *metrics.LifecycleMetrics
	cfg        config.ReservationsConfig
}

// NewService builds the reservation lifecycle service.
func NewService(
	repo Repository,
	propertyRepo properties.Repository,
	userRepo users.Repository,
	refunds refundRecorder,
	discounts discountApplier,
	tx txRunner,
	notify notifier,
	lifecycleMetrics *metrics.LifecycleMetrics,
	cfg config.ReservationsConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	if propertyRepo == nil {
		return nil, fmt.Errorf("properties repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if refunds == nil {
		return nil, fmt.Errorf("refund recorder required")
	}
	if discounts == nil {
		return nil, fmt.Errorf("discount applier required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:       repo,
		properties: propertyRepo,
		users:      userRepo,
		refunds:    refunds,
		discounts:  discounts,
		tx:         tx,
		notify:     notify,
		metrics:    lifecycleMetrics,
		cfg:        cfg,
	}, nil
}

func (s *service) Create(ctx context.Context, identity auth.Identity, input CreateInput) (*models.Reservation, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if input.PropertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}
	if input.TotalPrice.IsNegative() || input.Price.IsNegative() || input.ServiceFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must be non-negative")
	}

	var created *models.Reservation
	var ownerID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		property, err := s.properties.WithTx(tx).FindByID(ctx, input.PropertyID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeValidation, "property not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
		}
		ownerID = property.OwnerID

		tenant, err := s.users.WithTx(tx).FindByID(ctx, identity.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "tenant profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tenant")
		}

		reservation := &models.Reservation{
			UserID:        identity.UserID,
			PropertyID:    &property.ID,
			Status:        enums.ReservationStatusPending,
			PaymentStatus: enums.ReservationPaymentStatusPending,
			Price:         input.Price,
			ServiceFee:    input.ServiceFee,
			TotalPrice:    input.TotalPrice,
			Occupants:     input.Occupants,
			ScheduledDate: input.ScheduledDate,
			MoveOutDate:   input.MoveOutDate,
		}
		applyTenantDefaults(reservation, input, tenant)

		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, reservation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
		}

		if input.ReferralCode != nil && *input.ReferralCode != "" {
			discount, err := s.discounts.ApplyToBookingTx(ctx, tx, identity.UserID, reservation.ID, reservation.PropertyID, property.Title, reservation.TotalPrice)
			if err != nil {
				return err
			}
			if discount != nil {
				if err := repo.Update(ctx, reservation.ID, map[string]any{"discount": discount}); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach discount")
				}
				reservation.Discount = discount
			}
		}

		created = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition("", string(enums.ReservationStatusPending))
	s.notify.Notify(ctx, notifications.NotifyInput{
		UserID:  ownerID,
		Role:    enums.UserRoleAdvertiser,
		Type:    enums.NotificationTypeReservationCreated,
		Title:   "New reservation request",
		Message: "A tenant requested to rent your property.",
	})
	return created, nil
}

func (s *service) Approve(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error {
	reservation, err := s.authorizeAdvertiser(ctx, identity, reservationID)
	if err != nil {
		return err
	}

	if err := ValidateTransition(reservation.Status, enums.ReservationStatusAccepted); err != nil {
		if IsSameStatus(err) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already accepted")
		}
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).TransitionStatus(ctx, reservation.ID, reservation.Status, enums.ReservationStatusAccepted, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept reservation")
		}
		if !ok {
			s.metrics.IncConflict("approve")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}
		// acceptance takes the listing off the market
		if err := s.properties.WithTx(tx).UpdateStatus(ctx, *reservation.PropertyID, enums.PropertyStatusOccupied); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark property occupied")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(string(reservation.Status), string(enums.ReservationStatusAccepted))
	s.notify.Notify(ctx, notifications.NotifyInput{
		UserID:  reservation.UserID,
		Role:    enums.UserRoleClient,
		Type:    enums.NotificationTypeReservationAccepted,
		Title:   "Reservation accepted",
		Message: "Your reservation was accepted. You can now proceed to payment.",
	})
	return nil
}

func (s *service) Reject(ctx context.Context, identity auth.Identity, reservationID uuid.UUID, input RejectInput) error {
	reservation, err := s.authorizeAdvertiser(ctx, identity, reservationID)
	if err != nil {
		return err
	}

	target := enums.ReservationStatusRejected
	updates := map[string]any{}
	notifyType := enums.NotificationTypeReservationRejected
	notifyTitle := "Reservation rejected"
	notifyMessage := "Your reservation was rejected by the advertiser."

	reason := input.Reason
	if reason == "" {
		reason = enums.RejectionReasonUnspecified
	}

	if reason.IsCounterOfferEligible() && input.SuggestedMoveInDate != nil {
		target = enums.ReservationStatusCounterOfferPendingTenant
		updates["counter_offer_move_in_date"] = *input.SuggestedMoveInDate
		updates["rejection_reason"] = string(reason)
		notifyType = enums.NotificationTypeCounterOffer
		notifyTitle = "Counter-offer received"
		notifyMessage = "The advertiser suggested a different move-in date."
	} else {
		updates["rejection_reason"] = string(reason)
	}

	if err := ValidateTransition(reservation.Status, target); err != nil {
		if IsSameStatus(err) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already in requested status")
		}
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).TransitionStatus(ctx, reservation.ID, reservation.Status, target, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject reservation")
		}
		if !ok {
			s.metrics.IncConflict("reject")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(string(reservation.Status), string(target))
	s.notify.Notify(ctx, notifications.NotifyInput{
		UserID:  reservation.UserID,
		Role:    enums.UserRoleClient,
		Type:    notifyType,
		Title:   notifyTitle,
		Message: notifyMessage,
	})
	return nil
}

func (s *service) RespondToCounterOffer(ctx context.Context, identity auth.Identity, reservationID uuid.UUID, accept bool) error {
	reservation, err := s.authorizeTenant(ctx, identity, reservationID)
	if err != nil {
		return err
	}

	target := enums.ReservationStatusRejectedCounterOffer
	updates := map[string]any{}
	if accept {
		target = enums.ReservationStatusAcceptedCounterOffer
		if reservation.CounterOfferMoveInDate != nil {
			updates["scheduled_date"] = *reservation.CounterOfferMoveInDate
		}
	}

	if err := ValidateTransition(reservation.Status, target); err != nil {
		if IsSameStatus(err) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "counter-offer already resolved")
		}
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).TransitionStatus(ctx, reservation.ID, reservation.Status, target, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve counter-offer")
		}
		if !ok {
			s.metrics.IncConflict("counter_offer")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(string(reservation.Status), string(target))
	return nil
}

// MarkPaid is the status-only payment transition. The full variant that also
// writes the payment ledger row lives in the payments service; both validate
// against the same transition table.
func (s *service) MarkPaid(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error {
	reservation, err := s.authorizeTenant(ctx, identity, reservationID)
	if err != nil {
		return err
	}

	if err := ValidateTransition(reservation.Status, enums.ReservationStatusPaid); err != nil {
		if IsSameStatus(err) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already paid")
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation not accepted")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).TransitionStatus(ctx, reservation.ID, reservation.Status, enums.ReservationStatusPaid, map[string]any{
			"payment_status": enums.ReservationPaymentStatusPaid,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark reservation paid")
		}
		if !ok {
			s.metrics.IncConflict("mark_paid")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(string(reservation.Status), string(enums.ReservationStatusPaid))
	return nil
}

// ConfirmMoveIn is the status-only move-in transition. Payout scheduling is
// handled by the payments service's full variant.
func (s *service) ConfirmMoveIn(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error {
	reservation, err := s.authorizeTenant(ctx, identity, reservationID)
	if err != nil {
		return err
	}

	if err := ValidateTransition(reservation.Status, enums.ReservationStatusMovedIn); err != nil {
		if IsSameStatus(err) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "move-in already confirmed")
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation not paid")
	}

	now := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).TransitionStatus(ctx, reservation.ID, reservation.Status, enums.ReservationStatusMovedIn, map[string]any{
			"moved_in":    true,
			"moved_in_at": now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm move-in")
		}
		if !ok {
			s.metrics.IncConflict("move_in")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(string(reservation.Status), string(enums.ReservationStatusMovedIn))
	return nil
}

func (s *service) Cancel(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) error {
	reservation, err := s.authorizeTenant(ctx, identity, reservationID)
	if err != nil {
		return err
	}

	if reservation.Status == enums.ReservationStatusCancelled {
		return nil
	}
	if s.cfg.StrictCancellation {
		if err := ValidateTransition(reservation.Status, enums.ReservationStatusCancelled); err != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation cannot be cancelled in its current status")
		}
	} else if reservation.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already closed")
	}

	var ownerID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).TransitionStatus(ctx, reservation.ID, reservation.Status, enums.ReservationStatusCancelled, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel reservation")
		}
		if !ok {
			s.metrics.IncConflict("cancel")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}

		refund := &models.RefundRequest{
			ReservationID:  reservation.ID,
			UserID:         reservation.UserID,
			PropertyID:     reservation.PropertyID,
			Amount:         reservation.TotalPrice,
			OriginalAmount: reservation.TotalPrice,
			ServiceFee:     reservation.ServiceFee,
			Status:         enums.RefundRequestStatusApproved,
			AutoApproved:   true,
		}
		if err := s.refunds.CreateRefundRequestTx(ctx, tx, refund); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record refund request")
		}

		if reservation.PropertyID != nil {
			property, err := s.properties.WithTx(tx).FindByID(ctx, *reservation.PropertyID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return nil
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
			}
			ownerID = property.OwnerID
			if err := s.properties.WithTx(tx).UpdateStatus(ctx, property.ID, enums.PropertyStatusAvailable); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release property")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(string(reservation.Status), string(enums.ReservationStatusCancelled))
	s.metrics.IncRefundRequest("auto_approved")
	if ownerID != uuid.Nil {
		s.notify.Notify(ctx, notifications.NotifyInput{
			UserID:  ownerID,
			Role:    enums.UserRoleAdvertiser,
			Type:    enums.NotificationTypeReservationCancelled,
			Title:   "Reservation cancelled",
			Message: "The tenant cancelled their reservation. The property is available again.",
		})
	}
	return nil
}

func (s *service) Get(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) (*models.Reservation, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	reservation, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID == identity.UserID || identity.IsAdmin() {
		return reservation, nil
	}
	if reservation.PropertyID != nil {
		property, err := s.properties.FindByID(ctx, *reservation.PropertyID)
		if err == nil && property.OwnerID == identity.UserID {
			return reservation, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation does not belong to caller")
}

func (s *service) ListForTenant(ctx context.Context, identity auth.Identity, params pagination.Params) (*ReservationList, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	list, err := s.repo.ListByUser(ctx, identity.UserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	return list, nil
}

func (s *service) ListForAdvertiser(ctx context.Context, identity auth.Identity, params pagination.Params) (*ReservationList, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	list, err := s.repo.ListByAdvertiser(ctx, identity.UserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list advertiser reservations")
	}
	return list, nil
}

func (s *service) loadReservation(ctx context.Context, reservationID uuid.UUID) (*models.Reservation, error) {
	if reservationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	reservation, err := s.repo.FindByID(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	return reservation, nil
}

// authorizeAdvertiser loads the reservation and verifies the caller owns the
// referenced property.
func (s *service) authorizeAdvertiser(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) (*models.Reservation, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	reservation, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.PropertyID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation has no property")
	}
	property, err := s.properties.FindByID(ctx, *reservation.PropertyID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	if property.OwnerID != identity.UserID && !identity.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "property does not belong to caller")
	}
	return reservation, nil
}

// authorizeTenant loads the reservation and verifies the caller owns it.
func (s *service) authorizeTenant(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) (*models.Reservation, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	reservation, err := s.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation does not belong to caller")
	}
	return reservation, nil
}

func applyTenantDefaults(reservation *models.Reservation, input CreateInput, tenant *models.User) {
	name := input.TenantName
	if name == nil || *name == "" {
		full := tenant.FirstName + " " + tenant.LastName
		name = &full
	}
	email := input.TenantEmail
	if email == nil || *email == "" {
		email = &tenant.Email
	}
	phone := input.TenantPhone
	if phone == nil {
		phone = tenant.Phone
	}
	dob := input.TenantDOB
	if dob == nil {
		dob = tenant.DateOfBirth
	}
	about := input.TenantAboutMe
	if about == nil {
		about = tenant.AboutMe
	}

	reservation.TenantName = name
	reservation.TenantEmail = email
	reservation.TenantPhone = phone
	reservation.TenantDateOfBirth = dob
	reservation.TenantAboutMe = about
	if reservation.Occupants <= 0 {
		reservation.Occupants = 1
	}
}

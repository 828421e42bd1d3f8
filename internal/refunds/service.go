package refunds

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/internal/notifications"
	"github.com/kirayahq/kiraya-backend/internal/properties"
	"github.com/kirayahq/kiraya-backend/internal/reservations"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/config"
	"github.com/kirayahq/kiraya-backend/pkg/db"
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

// Service owns the refund and cancellation policy: it decides which refund
// path a reservation enters and always releases the property back to the
// market when one is attached.
type Service interface {
	RequestRefund(ctx context.Context, identity auth.Identity, reservationID uuid.UUID, details *RefundDetails) error
	ProcessStandardCancellation(ctx context.Context, identity auth.Identity, input StandardCancellationInput) error
	ListUserRefundRequests(ctx context.Context, identity auth.Identity, params pagination.Params) (*RefundRequestList, error)
}

type service struct {
	repo         Repository
	reservations reservations.Repository
	properties   properties.Repository
	tx           txRunner
	notify       notifier
	metrics      *metrics.LifecycleMetrics
	cfg          config.ReservationsConfig
}

// NewService builds the refund and cancellation service.
func NewService(
	repo Repository,
	reservationRepo reservations.Repository,
	propertyRepo properties.Repository,
	tx txRunner,
	notify notifier,
	lifecycleMetrics *metrics.LifecycleMetrics,
	cfg config.ReservationsConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("refunds repository required")
	}
	if reservationRepo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	if propertyRepo == nil {
		return nil, fmt.Errorf("properties repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notify == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:         repo,
		reservations: reservationRepo,
		properties:   propertyRepo,
		tx:           tx,
		notify:       notify,
		metrics:      lifecycleMetrics,
		cfg:          cfg,
	}, nil
}

func (s *service) RequestRefund(ctx context.Context, identity auth.Identity, reservationID uuid.UUID, details *RefundDetails) error {
	reservation, err := s.loadOwnedReservation(ctx, identity, reservationID)
	if err != nil {
		return err
	}
	if reservation.Status != enums.ReservationStatusMovedIn {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "refund requires a confirmed move-in")
	}

	var ownerID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureNoOpenRequest(ctx, tx, reservation.ID); err != nil {
			return err
		}

		ok, err := s.reservations.WithTx(tx).TransitionStatus(ctx, reservation.ID, reservation.Status, enums.ReservationStatusRefundProcessing, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start refund processing")
		}
		if !ok {
			s.metrics.IncConflict("request_refund")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}

		if details != nil {
			request := &models.RefundRequest{
				ReservationID:  reservation.ID,
				UserID:         reservation.UserID,
				PropertyID:     reservation.PropertyID,
				Reasons:        details.Reasons,
				ProofURLs:      details.ProofURLs,
				Amount:         details.RequestedAmount,
				OriginalAmount: details.OriginalAmount,
				ServiceFee:     details.ServiceFee,
				Status:         enums.RefundRequestStatusPending,
				AutoApproved:   false,
				AdminReviewed:  false,
			}
			if err := s.repo.CreateRefundRequestTx(ctx, tx, request); err != nil {
				if db.IsUniqueViolation(err, "uq_refund_requests_open_reservation") {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already has an open refund request")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record refund request")
			}
		}

		return s.releaseProperty(ctx, tx, reservation, &ownerID)
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(string(reservation.Status), string(enums.ReservationStatusRefundProcessing))
	s.metrics.IncRefundRequest("post_move_in")
	if ownerID != uuid.Nil {
		s.notify.Notify(ctx, notifications.NotifyInput{
			UserID:  ownerID,
			Role:    enums.UserRoleAdvertiser,
			Type:    enums.NotificationTypeRefundRequested,
			Title:   "Refund requested",
			Message: "The tenant requested a refund. The property is available again.",
		})
	}
	return nil
}

func (s *service) ProcessStandardCancellation(ctx context.Context, identity auth.Identity, input StandardCancellationInput) error {
	reservation, err := s.loadOwnedReservation(ctx, identity, input.ReservationID)
	if err != nil {
		return err
	}

	if s.cfg.StrictCancellation {
		if reservation.Status != enums.ReservationStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "standard cancellation requires a paid reservation")
		}
	} else if reservation.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already closed")
	}

	// the fee schedule comes from the caller, but the arithmetic must hold
	expected := input.OriginalAmount.Sub(input.ServiceFee).Sub(input.CancellationFee)
	if !input.RefundAmount.Equal(expected) {
		return pkgerrors.New(pkgerrors.CodeValidation, "refund amount does not match fee breakdown").
			WithDetails(map[string]string{
				"expected": expected.String(),
				"supplied": input.RefundAmount.String(),
			})
	}
	if input.RefundAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "refund amount must be non-negative")
	}

	var ownerID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureNoOpenRequest(ctx, tx, reservation.ID); err != nil {
			return err
		}

		ok, err := s.reservations.WithTx(tx).TransitionStatus(ctx, reservation.ID, reservation.Status, enums.ReservationStatusRefundProcessing, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start refund processing")
		}
		if !ok {
			s.metrics.IncConflict("standard_cancellation")
			return pkgerrors.New(pkgerrors.CodeConflict, "reservation changed concurrently")
		}

		reason := input.Reason
		daysToMoveIn := input.DaysToMoveIn
		cancellationFee := input.CancellationFee
		request := &models.RefundRequest{
			ReservationID:   reservation.ID,
			UserID:          reservation.UserID,
			PropertyID:      reservation.PropertyID,
			Reason:          &reason,
			Amount:          input.RefundAmount,
			OriginalAmount:  input.OriginalAmount,
			ServiceFee:      input.ServiceFee,
			CancellationFee: &cancellationFee,
			DaysToMoveIn:    &daysToMoveIn,
			Status:          enums.RefundRequestStatusProcessing,
			AutoApproved:    false,
		}
		if err := s.repo.CreateRefundRequestTx(ctx, tx, request); err != nil {
			if db.IsUniqueViolation(err, "uq_refund_requests_open_reservation") {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already has an open refund request")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record cancellation")
		}

		return s.releaseProperty(ctx, tx, reservation, &ownerID)
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition(string(reservation.Status), string(enums.ReservationStatusRefundProcessing))
	s.metrics.IncRefundRequest("standard_cancellation")
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

func (s *service) ListUserRefundRequests(ctx context.Context, identity auth.Identity, params pagination.Params) (*RefundRequestList, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	list, err := s.repo.ListByUser(ctx, identity.UserID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refund requests")
	}
	return list, nil
}

func (s *service) loadOwnedReservation(ctx context.Context, identity auth.Identity, reservationID uuid.UUID) (*models.Reservation, error) {
	if identity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if reservationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	if reservation.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation does not belong to caller")
	}
	return reservation, nil
}

func (s *service) ensureNoOpenRequest(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID) error {
	_, err := s.repo.WithTx(tx).FindOpenByReservation(ctx, reservationID)
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already has an open refund request")
	}
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check open refund requests")
}

func (s *service) releaseProperty(ctx context.Context, tx *gorm.DB, reservation *models.Reservation, ownerID *uuid.UUID) error {
	if reservation.PropertyID == nil {
		return nil
	}
	property, err := s.properties.WithTx(tx).FindByID(ctx, *reservation.PropertyID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	*ownerID = property.OwnerID
	if err := s.properties.WithTx(tx).UpdateStatus(ctx, property.ID, enums.PropertyStatusAvailable); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release property")
	}
	return nil
}

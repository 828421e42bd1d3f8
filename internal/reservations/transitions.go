package reservations

import (
	"fmt"

	"github.com/kirayahq/kiraya-backend/pkg/enums"
	pkgerrors "github.com/kirayahq/kiraya-backend/pkg/errors"
)

// transitions is the single authority on which status changes are legal.
// Every mutation, whether it only flips the status or also writes ledger
// rows, validates against this table before touching the database.
var transitions = map[enums.ReservationStatus][]enums.ReservationStatus{
	enums.ReservationStatusPending: {
		enums.ReservationStatusAccepted,
		enums.ReservationStatusRejected,
		enums.ReservationStatusCounterOfferPendingTenant,
		enums.ReservationStatusCancelled,
	},
	enums.ReservationStatusCounterOfferPendingTenant: {
		enums.ReservationStatusAcceptedCounterOffer,
		enums.ReservationStatusRejectedCounterOffer,
		enums.ReservationStatusCancelled,
	},
	enums.ReservationStatusAccepted: {
		enums.ReservationStatusPaid,
		enums.ReservationStatusCancelled,
	},
	enums.ReservationStatusAcceptedCounterOffer: {
		enums.ReservationStatusPaid,
		enums.ReservationStatusCancelled,
	},
	enums.ReservationStatusPaid: {
		enums.ReservationStatusMovedIn,
		enums.ReservationStatusRefundProcessing,
	},
	enums.ReservationStatusMovedIn: {
		enums.ReservationStatusRefundProcessing,
	},
	enums.ReservationStatusRefundProcessing: {
		enums.ReservationStatusRefundCompleted,
		enums.ReservationStatusRefundFailed,
	},
	enums.ReservationStatusRefundFailed: {
		enums.ReservationStatusRefundProcessing,
	},
	enums.ReservationStatusCancellationUnderReview: {
		enums.ReservationStatusCancellationRejected,
		enums.ReservationStatusRefundProcessing,
	},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to enums.ReservationStatus) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a state-conflict error when the move is illegal.
// A same-status move is reported separately so callers can treat it as an
// idempotent no-op instead of a failure.
func ValidateTransition(from, to enums.ReservationStatus) error {
	if from == to {
		return errSameStatus
	}
	if !CanTransition(from, to) {
		return pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("reservation cannot move from %s to %s", from, to),
		)
	}
	return nil
}

var errSameStatus = pkgerrors.New(pkgerrors.CodeStateConflict, "reservation already in requested status")

// IsSameStatus reports whether err is the sentinel for a same-status move.
func IsSameStatus(err error) bool {
	return err == errSameStatus
}

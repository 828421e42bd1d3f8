package enums

import "fmt"

// ReservationStatus tracks where a rental request sits in its lifecycle. The
// string values are the canonical ones persisted in the reservations table.
type ReservationStatus string

const (
	ReservationStatusPending                   ReservationStatus = "pending"
	ReservationStatusAccepted                  ReservationStatus = "accepted"
	ReservationStatusRejected                  ReservationStatus = "rejected"
	ReservationStatusCounterOfferPendingTenant ReservationStatus = "counter_offer_pending_tenant"
	ReservationStatusAcceptedCounterOffer      ReservationStatus = "accepted_counter_offer"
	ReservationStatusRejectedCounterOffer      ReservationStatus = "rejected_counter_offer"
	ReservationStatusPaid                      ReservationStatus = "paid"
	ReservationStatusMovedIn                   ReservationStatus = "movedIn"
	ReservationStatusCancelled                 ReservationStatus = "cancelled"
	ReservationStatusRefundProcessing          ReservationStatus = "refundProcessing"
	ReservationStatusRefundCompleted           ReservationStatus = "refundCompleted"
	ReservationStatusRefundFailed              ReservationStatus = "refundFailed"
	ReservationStatusCancellationUnderReview   ReservationStatus = "cancellationUnderReview"
	ReservationStatusCancellationRejected      ReservationStatus = "cancellationRejected"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusAccepted,
	ReservationStatusRejected,
	ReservationStatusCounterOfferPendingTenant,
	ReservationStatusAcceptedCounterOffer,
	ReservationStatusRejectedCounterOffer,
	ReservationStatusPaid,
	ReservationStatusMovedIn,
	ReservationStatusCancelled,
	ReservationStatusRefundProcessing,
	ReservationStatusRefundCompleted,
	ReservationStatusRefundFailed,
	ReservationStatusCancellationUnderReview,
	ReservationStatusCancellationRejected,
}

// String implements fmt.Stringer.
func (r ReservationStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReservationStatus.
func (r ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (r ReservationStatus) IsTerminal() bool {
	switch r {
	case ReservationStatusRejected,
		ReservationStatusRejectedCounterOffer,
		ReservationStatusCancelled,
		ReservationStatusRefundCompleted,
		ReservationStatusCancellationRejected:
		return true
	}
	return false
}

// ParseReservationStatus converts the raw string to ReservationStatus.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}

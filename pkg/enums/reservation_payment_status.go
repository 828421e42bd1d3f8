package enums

import "fmt"

// ReservationPaymentStatus tracks the money side of a reservation.
type ReservationPaymentStatus string

const (
	ReservationPaymentStatusPending  ReservationPaymentStatus = "pending"
	ReservationPaymentStatusPaid     ReservationPaymentStatus = "paid"
	ReservationPaymentStatusRefunded ReservationPaymentStatus = "refunded"
)

var validReservationPaymentStatuses = []ReservationPaymentStatus{
	ReservationPaymentStatusPending,
	ReservationPaymentStatusPaid,
	ReservationPaymentStatusRefunded,
}

// IsValid reports whether the value is a known ReservationPaymentStatus.
func (r ReservationPaymentStatus) IsValid() bool {
	for _, candidate := range validReservationPaymentStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReservationPaymentStatus converts the raw string to ReservationPaymentStatus.
func ParseReservationPaymentStatus(value string) (ReservationPaymentStatus, error) {
	for _, candidate := range validReservationPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation payment status %q", value)
}

package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeReservationCreated   NotificationType = "reservation_created"
	NotificationTypeReservationAccepted  NotificationType = "reservation_accepted"
	NotificationTypeReservationRejected  NotificationType = "reservation_rejected"
	NotificationTypeCounterOffer         NotificationType = "counter_offer"
	NotificationTypeReservationCancelled NotificationType = "reservation_cancelled"
	NotificationTypePaymentReceived      NotificationType = "payment_received"
	NotificationTypeMoveInConfirmed      NotificationType = "move_in_confirmed"
	NotificationTypeRefundRequested      NotificationType = "refund_requested"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeReservationCreated,
	NotificationTypeReservationAccepted,
	NotificationTypeReservationRejected,
	NotificationTypeCounterOffer,
	NotificationTypeReservationCancelled,
	NotificationTypePaymentReceived,
	NotificationTypeMoveInConfirmed,
	NotificationTypeRefundRequested,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}

package enums

import "fmt"

// RefundRequestStatus describes how far a refund request has progressed.
// Auto-approved pre-payment cancellations are born approved; reviewable
// requests start pending and move to processing once picked up.
type RefundRequestStatus string

const (
	RefundRequestStatusApproved   RefundRequestStatus = "approved"
	RefundRequestStatusPending    RefundRequestStatus = "pending"
	RefundRequestStatusProcessing RefundRequestStatus = "processing"
)

var validRefundRequestStatuses = []RefundRequestStatus{
	RefundRequestStatusApproved,
	RefundRequestStatusPending,
	RefundRequestStatusProcessing,
}

// IsValid reports whether the value is a known RefundRequestStatus.
func (r RefundRequestStatus) IsValid() bool {
	for _, candidate := range validRefundRequestStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRefundRequestStatus converts the raw string to RefundRequestStatus.
func ParseRefundRequestStatus(value string) (RefundRequestStatus, error) {
	for _, candidate := range validRefundRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid refund request status %q", value)
}

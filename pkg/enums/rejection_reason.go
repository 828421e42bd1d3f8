package enums

// RejectionReason captures why an advertiser turned a reservation down.
// MoveInDateTooFar is special: paired with a suggested date it produces a
// counter-offer instead of a terminal rejection.
type RejectionReason string

const (
	RejectionReasonUnspecified      RejectionReason = "unspecified"
	RejectionReasonMoveInDateTooFar RejectionReason = "move_in_date_too_far"
)

// IsCounterOfferEligible reports whether this reason can carry a counter-offer.
func (r RejectionReason) IsCounterOfferEligible() bool {
	return r == RejectionReasonMoveInDateTooFar
}

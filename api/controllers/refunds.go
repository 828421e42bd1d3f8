package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/api/responses"
	"github.com/kirayahq/kiraya-backend/api/validators"
	"github.com/kirayahq/kiraya-backend/internal/refunds"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/logger"
	"github.com/kirayahq/kiraya-backend/pkg/types"
)

type refundRequestBody struct {
	Reasons         []string        `json:"reasons" validate:"omitempty,dive,min=1"`
	ProofURLs       []string        `json:"proof_urls" validate:"omitempty,dive,url"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	ServiceFee      decimal.Decimal `json:"service_fee"`
}

type standardCancellationBody struct {
	Reason          string          `json:"reason" validate:"required,min=3"`
	DaysToMoveIn    int             `json:"days_to_move_in" validate:"gte=0"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	ServiceFee      decimal.Decimal `json:"service_fee"`
	CancellationFee decimal.Decimal `json:"cancellation_fee"`
}

// RequestRefund opens a post-move-in refund. The body is optional; when
// present it carries the evidence for admin review.
func RequestRefund(svc refunds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.IdentityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reservationID, err := reservationIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var details *refunds.RefundDetails
		if r.ContentLength > 0 {
			var body refundRequestBody
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			details = &refunds.RefundDetails{
				Reasons:         types.RefundReasons(body.Reasons),
				ProofURLs:       types.RefundReasons(body.ProofURLs),
				RequestedAmount: body.RequestedAmount,
				OriginalAmount:  body.OriginalAmount,
				ServiceFee:      body.ServiceFee,
			}
		}

		if err := svc.RequestRefund(r.Context(), identity, reservationID, details); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// StandardCancellation runs the fee-bearing cancellation path.
func StandardCancellation(svc refunds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.IdentityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reservationID, err := reservationIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body standardCancellationBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := refunds.StandardCancellationInput{
			ReservationID:   reservationID,
			Reason:          body.Reason,
			DaysToMoveIn:    body.DaysToMoveIn,
			RefundAmount:    body.RefundAmount,
			OriginalAmount:  body.OriginalAmount,
			ServiceFee:      body.ServiceFee,
			CancellationFee: body.CancellationFee,
		}
		if err := svc.ProcessStandardCancellation(r.Context(), identity, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// ListRefundRequests pages through the caller's refund requests.
func ListRefundRequests(svc refunds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.IdentityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListUserRefundRequests(r.Context(), identity, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

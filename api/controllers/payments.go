package controllers

import (
	"net/http"

	"github.com/kirayahq/kiraya-backend/api/responses"
	"github.com/kirayahq/kiraya-backend/internal/payments"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/logger"
)

// ProcessPayment charges the reservation and writes the payment ledger row.
// The outcome always comes back as a result object with HTTP 200; failures
// carry the reason in the payload.
func ProcessPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
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

		result := svc.ProcessPayment(r.Context(), identity, reservationID)
		responses.WriteSuccess(w, result)
	}
}

// PaymentMoveIn confirms move-in and schedules the advertiser payout.
func PaymentMoveIn(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
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

		result := svc.HandleMoveIn(r.Context(), identity, reservationID)
		responses.WriteSuccess(w, result)
	}
}

// ListUserPayments pages through the caller's payment history.
func ListUserPayments(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
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

		list, err := svc.ListUserPayments(r.Context(), identity, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

package controllers

import (
	"net/http"

	"github.com/kirayahq/kiraya-backend/api/responses"
	"github.com/kirayahq/kiraya-backend/api/validators"
	"github.com/kirayahq/kiraya-backend/internal/referrals"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/logger"
)

type applyReferralCodeRequest struct {
	Code string `json:"code" validate:"required,min=3,max=64"`
}

// ApplyReferralCode redeems a referral code for the caller. An unknown or
// self-owned code reports applied=false without an error.
func ApplyReferralCode(svc referrals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.IdentityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req applyReferralCodeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applied, err := svc.ApplyReferralCode(r.Context(), identity, req.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"applied": applied})
	}
}

// GetUserDiscount returns the caller's active referral discount, if any.
func GetUserDiscount(svc referrals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.IdentityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.GetUserDiscount(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discount)
	}
}

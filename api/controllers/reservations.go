package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirayahq/kiraya-backend/api/responses"
	"github.com/kirayahq/kiraya-backend/api/validators"
	"github.com/kirayahq/kiraya-backend/internal/reservations"
	"github.com/kirayahq/kiraya-backend/pkg/auth"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
	pkgerrors "github.com/kirayahq/kiraya-backend/pkg/errors"
	"github.com/kirayahq/kiraya-backend/pkg/logger"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
)

type createReservationRequest struct {
	PropertyID    string          `json:"property_id" validate:"required,uuid4"`
	Price         decimal.Decimal `json:"price"`
	ServiceFee    decimal.Decimal `json:"service_fee"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Occupants     int             `json:"occupants" validate:"omitempty,min=1,max=20"`
	ScheduledDate *time.Time      `json:"scheduled_date"`
	MoveOutDate   *time.Time      `json:"move_out_date"`
	TenantName    *string         `json:"tenant_name"`
	TenantEmail   *string         `json:"tenant_email" validate:"omitempty,email"`
	TenantPhone   *string         `json:"tenant_phone"`
	TenantDOB     *time.Time      `json:"tenant_date_of_birth"`
	TenantAboutMe *string         `json:"tenant_about_me"`
	ReferralCode  *string         `json:"referral_code"`
}

type rejectReservationRequest struct {
	Reason              string     `json:"reason" validate:"omitempty,oneof=unspecified move_in_date_too_far"`
	SuggestedMoveInDate *time.Time `json:"suggested_move_in_date"`
}

type counterOfferResponseRequest struct {
	Accept bool `json:"accept"`
}

// CreateReservation opens a new reservation request against a property.
func CreateReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := auth.IdentityFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createReservationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		propertyID, err := uuid.Parse(req.PropertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property id"))
			return
		}

		created, err := svc.Create(r.Context(), identity, reservations.CreateInput{
			PropertyID:    propertyID,
			Price:         req.Price,
			ServiceFee:    req.ServiceFee,
			TotalPrice:    req.TotalPrice,
			Occupants:     req.Occupants,
			ScheduledDate: req.ScheduledDate,
			MoveOutDate:   req.MoveOutDate,
			TenantName:    req.TenantName,
			TenantEmail:   req.TenantEmail,
			TenantPhone:   req.TenantPhone,
			TenantDOB:     req.TenantDOB,
			TenantAboutMe: req.TenantAboutMe,
			ReferralCode:  req.ReferralCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// GetReservation returns one reservation visible to the caller.
func GetReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
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

		reservation, err := svc.Get(r.Context(), identity, reservationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservation)
	}
}

// ListTenantReservations pages through the caller's reservations.
func ListTenantReservations(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
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

		list, err := svc.ListForTenant(r.Context(), identity, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListAdvertiserReservations pages through reservations on the caller's
// properties.
func ListAdvertiserReservations(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
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

		list, err := svc.ListForAdvertiser(r.Context(), identity, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ApproveReservation accepts a pending reservation.
func ApproveReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return reservationAction(logg, func(r *http.Request, identity auth.Identity, id uuid.UUID) error {
		return svc.Approve(r.Context(), identity, id)
	})
}

// RejectReservation declines a pending reservation, optionally with a
// counter-offer on the move-in date.
func RejectReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req rejectReservationRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		input := reservations.RejectInput{
			Reason:              enums.RejectionReason(req.Reason),
			SuggestedMoveInDate: req.SuggestedMoveInDate,
		}
		if err := svc.Reject(r.Context(), identity, reservationID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// RespondCounterOffer records the tenant's answer to a counter-offer.
func RespondCounterOffer(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req counterOfferResponseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RespondToCounterOffer(r.Context(), identity, reservationID, req.Accept); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// PayReservation is the status-only payment endpoint. The ledger-writing
// variant lives under /payments.
func PayReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return reservationAction(logg, func(r *http.Request, identity auth.Identity, id uuid.UUID) error {
		return svc.MarkPaid(r.Context(), identity, id)
	})
}

// MoveInReservation is the status-only move-in endpoint.
func MoveInReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return reservationAction(logg, func(r *http.Request, identity auth.Identity, id uuid.UUID) error {
		return svc.ConfirmMoveIn(r.Context(), identity, id)
	})
}

// CancelReservation cancels the reservation and auto-approves the refund.
func CancelReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return reservationAction(logg, func(r *http.Request, identity auth.Identity, id uuid.UUID) error {
		return svc.Cancel(r.Context(), identity, id)
	})
}

func reservationAction(logg *logger.Logger, action func(r *http.Request, identity auth.Identity, id uuid.UUID) error) http.HandlerFunc {
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
		if err := action(r, identity, reservationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

func reservationIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "reservationID"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reservation id")
	}
	return id, nil
}

func paginationParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

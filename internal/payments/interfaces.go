package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
)

// Repository defines persistence operations for payments and pending payouts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindPaymentByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Payment, error)
	CreatePendingPayout(ctx context.Context, payout *models.PendingPayout) (*models.PendingPayout, error)
	FindPayoutByReservation(ctx context.Context, reservationID uuid.UUID) (*models.PendingPayout, error)
	ListUserPayments(ctx context.Context, userID uuid.UUID, params pagination.Params) (*UserPaymentList, error)
}

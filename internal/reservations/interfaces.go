package reservations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
)

// Repository defines persistence operations for the reservations table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	// TransitionStatus conditionally moves a reservation from an expected
	// prior status to the next one, applying any extra column updates in the
	// same statement. It reports false when the row was not in the expected
	// status, which callers surface as a concurrency conflict.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.ReservationStatus, updates map[string]any) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ReservationList, error)
	ListByAdvertiser(ctx context.Context, advertiserID uuid.UUID, params pagination.Params) (*ReservationList, error)
}

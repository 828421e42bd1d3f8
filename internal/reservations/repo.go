package reservations

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/enums"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reservations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error) {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.ReservationStatus, updates map[string]any) (bool, error) {
	values := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for key, value := range updates {
		values[key] = value
	}

	res := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ReservationList, error) {
	return r.list(ctx, "r.user_id = ?", userID, params)
}

func (r *repository) ListByAdvertiser(ctx context.Context, advertiserID uuid.UUID, params pagination.Params) (*ReservationList, error) {
	return r.list(ctx, "p.owner_id = ?", advertiserID, params)
}

type listRow struct {
	models.Reservation
	PropertyTitle *string
}

func (r *repository) list(ctx context.Context, ownerClause string, ownerID uuid.UUID, params pagination.Params) (*ReservationList, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Table("reservations r").
		Select("r.*, p.title AS property_title").
		Joins("LEFT JOIN properties p ON p.id = r.property_id").
		Where(ownerClause, ownerID)

	if cursor != nil {
		query = query.Where("(r.created_at < ?) OR (r.created_at = ? AND r.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	query = query.Order("r.created_at DESC").Order("r.id DESC").Limit(limitWithBuffer)

	var rows []listRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	summaries := make([]ReservationSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, summarize(row.Reservation, row.PropertyTitle))
	}

	return &ReservationList{
		Reservations: summaries,
		NextCursor:   nextCursor,
	}, nil
}

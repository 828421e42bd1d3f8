package refunds

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
)

// Repository defines persistence operations for refund requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.RefundRequest) error
	CreateRefundRequestTx(ctx context.Context, tx *gorm.DB, request *models.RefundRequest) error
	FindOpenByReservation(ctx context.Context, reservationID uuid.UUID) (*models.RefundRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*RefundRequestList, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a refunds repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request *models.RefundRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// CreateRefundRequestTx writes the row on the caller's transaction. Other
// lifecycle services use this to bundle a refund record with their own
// conditional status update.
func (r *repository) CreateRefundRequestTx(ctx context.Context, tx *gorm.DB, request *models.RefundRequest) error {
	if tx == nil {
		return r.Create(ctx, request)
	}
	return tx.WithContext(ctx).Create(request).Error
}

func (r *repository) FindOpenByReservation(ctx context.Context, reservationID uuid.UUID) (*models.RefundRequest, error) {
	var request models.RefundRequest
	err := r.db.WithContext(ctx).
		Where("reservation_id = ? AND resolved_at IS NULL", reservationID).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*RefundRequestList, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.RefundRequest{}).
		Where("user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.RefundRequest
	if err := query.Order("created_at DESC, id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
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

	summaries := make([]RefundRequestSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, RefundRequestSummary{
			ID:            row.ID,
			ReservationID: row.ReservationID,
			Amount:        row.Amount,
			Status:        row.Status,
			AutoApproved:  row.AutoApproved,
			CreatedAt:     row.CreatedAt,
		})
	}

	return &RefundRequestList{
		Requests:   summaries,
		NextCursor: nextCursor,
	}, nil
}

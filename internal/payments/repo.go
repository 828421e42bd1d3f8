package payments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kirayahq/kiraya-backend/pkg/db/models"
	"github.com/kirayahq/kiraya-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindPaymentByReservation(ctx context.Context, reservationID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) CreatePendingPayout(ctx context.Context, payout *models.PendingPayout) (*models.PendingPayout, error) {
	if err := r.db.WithContext(ctx).Create(payout).Error; err != nil {
		return nil, err
	}
	return payout, nil
}

func (r *repository) FindPayoutByReservation(ctx context.Context, reservationID uuid.UUID) (*models.PendingPayout, error) {
	var payout models.PendingPayout
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&payout).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

type userPaymentRow struct {
	models.Payment
	PropertyTitle       *string
	PropertyCity        *string
	AdvertiserFirstName *string
	AdvertiserLastName  *string
}

func (r *repository) ListUserPayments(ctx context.Context, userID uuid.UUID, params pagination.Params) (*UserPaymentList, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Table("payments pay").
		Select("pay.*, p.title AS property_title, p.city AS property_city, u.first_name AS advertiser_first_name, u.last_name AS advertiser_last_name").
		Joins("LEFT JOIN properties p ON p.id = pay.property_id").
		Joins("LEFT JOIN users u ON u.id = pay.advertiser_id").
		Where("pay.user_id = ?", userID)

	if cursor != nil {
		query = query.Where("(pay.created_at < ?) OR (pay.created_at = ? AND pay.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	query = query.Order("pay.created_at DESC").Order("pay.id DESC").Limit(limitWithBuffer)

	var rows []userPaymentRow
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

	entries := make([]UserPaymentEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}

	return &UserPaymentList{
		Payments:   entries,
		NextCursor: nextCursor,
	}, nil
}

func (row userPaymentRow) toEntry() UserPaymentEntry {
	entry := UserPaymentEntry{
		ID:            row.ID,
		ReservationID: row.ReservationID,
		Amount:        row.Amount,
		Currency:      row.Currency,
		Status:        row.Status,
		TransactionID: row.TransactionID,
		PaymentDate:   row.PaymentDate,
	}
	if row.PropertyTitle != nil {
		entry.Property = &PropertySummary{
			ID:    row.PropertyID,
			Title: *row.PropertyTitle,
			City:  row.PropertyCity,
		}
	}
	if row.AdvertiserFirstName != nil || row.AdvertiserLastName != nil {
		advertiser := &AdvertiserSummary{ID: row.AdvertiserID}
		if row.AdvertiserFirstName != nil {
			advertiser.FirstName = *row.AdvertiserFirstName
		}
		if row.AdvertiserLastName != nil {
			advertiser.LastName = *row.AdvertiserLastName
		}
		entry.Advertiser = advertiser
	}
	return entry
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"funbook/internal/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	var a domain.Activity
	tx := r.db.WithContext(ctx).First(&a, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &a, nil
}

func (r *ActivityRepository) List(ctx context.Context, categoryID int64, limit, offset int) ([]domain.Activity, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if categoryID > 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var out []domain.Activity
	tx := q.Order("id").Limit(limit).Offset(offset).Find(&out)
	return out, tx.Error
}

// ActiveDiscount returns the live time-bounded discount for the activity, if
// any. gorm.ErrRecordNotFound means the base price applies.
func (r *ActivityRepository) ActiveDiscount(ctx context.Context, activityID int64, now time.Time) (*domain.ActivityDiscount, error) {
	var d domain.ActivityDiscount
	tx := r.db.WithContext(ctx).
		Where("activity_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?", activityID, true, now, now).
		Order("percentage DESC").
		First(&d)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &d, nil
}

func (r *ActivityRepository) IncrementViews(ctx context.Context, activityID int64, delta int64) error {
	return r.db.WithContext(ctx).Model(&domain.Activity{}).
		Where("id = ?", activityID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta)).Error
}

func (r *ActivityRepository) IncrementBookings(ctx context.Context, activityID int64) error {
	return r.db.WithContext(ctx).Model(&domain.Activity{}).
		Where("id = ?", activityID).
		UpdateColumn("total_bookings", gorm.Expr("total_bookings + 1")).Error
}

func (r *ActivityRepository) UpdateRating(ctx context.Context, activityID int64, avg float64, count int64) error {
	return r.db.WithContext(ctx).Model(&domain.Activity{}).
		Where("id = ?", activityID).
		Updates(map[string]any{"average_rating": avg, "total_reviews": count}).Error
}

func (r *ActivityRepository) UpdateProviderRating(ctx context.Context, providerID int64, avg float64, count int64) error {
	return r.db.WithContext(ctx).Model(&domain.Provider{}).
		Where("id = ?", providerID).
		Updates(map[string]any{"average_rating": avg, "total_reviews": count}).Error
}

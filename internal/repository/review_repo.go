package repository

import (
	"context"

	"gorm.io/gorm"

	"funbook/internal/domain"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepository) ListByActivity(ctx context.Context, activityID int64, limit, offset int) ([]domain.Review, error) {
	var out []domain.Review
	tx := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out)
	return out, tx.Error
}

type ratingAggregate struct {
	Avg   float64
	Count int64
}

// AggregateForActivity recomputes the average rating from the store rather
// than nudging the running aggregate.
func (r *ReviewRepository) AggregateForActivity(ctx context.Context, activityID int64) (float64, int64, error) {
	var agg ratingAggregate
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("activity_id = ?", activityID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(1) AS count").
		Scan(&agg).Error
	return agg.Avg, agg.Count, err
}

func (r *ReviewRepository) AggregateForProvider(ctx context.Context, providerID int64) (float64, int64, error) {
	var agg ratingAggregate
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Joins("JOIN activities ON activities.id = reviews.activity_id").
		Where("activities.provider_id = ?", providerID).
		Select("COALESCE(AVG(reviews.rating), 0) AS avg, COUNT(1) AS count").
		Scan(&agg).Error
	return agg.Avg, agg.Count, err
}

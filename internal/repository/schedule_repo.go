package repository

import (
	"context"

	"gorm.io/gorm"

	"funbook/internal/domain"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) ListByActivity(ctx context.Context, activityID int64) ([]domain.Schedule, error) {
	var out []domain.Schedule
	tx := r.db.WithContext(ctx).
		Where("activity_id = ? AND is_active = ?", activityID, true).
		Order("start_time").
		Find(&out)
	return out, tx.Error
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	var s domain.Schedule
	tx := r.db.WithContext(ctx).First(&s, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &s, nil
}

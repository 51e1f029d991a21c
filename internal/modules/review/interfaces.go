package review

import (
	"context"

	"funbook/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	ListByActivity(ctx context.Context, activityID int64, limit, offset int) ([]domain.Review, error)
	AggregateForActivity(ctx context.Context, activityID int64) (float64, int64, error)
	AggregateForProvider(ctx context.Context, providerID int64) (float64, int64, error)
}

type ActivityStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	UpdateRating(ctx context.Context, activityID int64, avg float64, count int64) error
	UpdateProviderRating(ctx context.Context, providerID int64, avg float64, count int64) error
}

type CompletionChecker interface {
	HasCompletedBookingForActivity(ctx context.Context, customerID, activityID int64) (bool, error)
}

type PointsAwarder interface {
	AwardReviewPoints(ctx context.Context, userID, reviewID int64, commentLength int) error
}

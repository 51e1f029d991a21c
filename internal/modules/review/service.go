package review

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
	"funbook/internal/repository"
)

type Service struct {
	reviews    ReviewRepository
	activities ActivityStore
	bookings   CompletionChecker
	loyalty    PointsAwarder
	log        *zap.Logger
}

func NewService(reviews ReviewRepository, activities ActivityStore, bookings CompletionChecker, loyalty PointsAwarder, log *zap.Logger) *Service {
	return &Service{
		reviews:    reviews,
		activities: activities,
		bookings:   bookings,
		loyalty:    loyalty,
		log:        log,
	}
}

// Create records a review. A reviewer with a completed booking for the
// activity gets the verified badge. Rating aggregates and loyalty points are
// recomputed out of band.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	activity, err := s.activities.GetByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	verified, err := s.bookings.HasCompletedBookingForActivity(ctx, userID, req.ActivityID)
	if err != nil {
		return nil, err
	}

	rv := &domain.Review{
		ActivityID: req.ActivityID,
		UserID:     userID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		IsVerified: verified,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	go s.afterCreate(activity, rv)

	return rv, nil
}

func (s *Service) afterCreate(activity *domain.Activity, rv *domain.Review) {
	ctx := context.Background()

	avg, count, err := s.reviews.AggregateForActivity(ctx, activity.ID)
	if err == nil {
		err = s.activities.UpdateRating(ctx, activity.ID, avg, count)
	}
	if err != nil {
		s.log.Warn("activity rating recompute failed",
			zap.Int64("activity_id", activity.ID), zap.Error(err))
	}

	avg, count, err = s.reviews.AggregateForProvider(ctx, activity.ProviderID)
	if err == nil {
		err = s.activities.UpdateProviderRating(ctx, activity.ProviderID, avg, count)
	}
	if err != nil {
		s.log.Warn("provider rating recompute failed",
			zap.Int64("provider_id", activity.ProviderID), zap.Error(err))
	}

	if err := s.loyalty.AwardReviewPoints(ctx, rv.UserID, rv.ID, len(rv.Comment)); err != nil {
		s.log.Warn("review points award failed",
			zap.Int64("review_id", rv.ID), zap.Error(err))
	}
}

func (s *Service) ListByActivity(ctx context.Context, activityID int64, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reviews.ListByActivity(ctx, activityID, limit, offset)
}

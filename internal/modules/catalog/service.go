package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
	"funbook/internal/modules/pricing"
)

var ErrNotFound = errors.New("activity not found")

const viewKeyPrefix = "views:activity:"

type ActivityStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	List(ctx context.Context, categoryID int64, limit, offset int) ([]domain.Activity, error)
	ActiveDiscount(ctx context.Context, activityID int64, now time.Time) (*domain.ActivityDiscount, error)
	IncrementViews(ctx context.Context, activityID int64, delta int64) error
}

type ScheduleLister interface {
	ListByActivity(ctx context.Context, activityID int64) ([]domain.Schedule, error)
}

type Service struct {
	activities ActivityStore
	schedules  ScheduleLister
	pricing    *pricing.Calculator
	rdb        *redis.Client
	log        *zap.Logger
}

func NewService(activities ActivityStore, schedules ScheduleLister, calc *pricing.Calculator, rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{
		activities: activities,
		schedules:  schedules,
		pricing:    calc,
		rdb:        rdb,
		log:        log,
	}
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Activity, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.activities.List(ctx, q.CategoryID, q.Limit, q.Offset)
}

// Get returns the activity with its schedules and the price currently in
// effect, and bumps the view counter as a side effect.
func (s *Service) Get(ctx context.Context, id int64) (*ActivityDetail, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	schedules, err := s.schedules.ListByActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	discount, err := s.activities.ActiveDiscount(ctx, id, now)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s.RecordView(ctx, id)

	return &ActivityDetail{
		Activity:       *activity,
		EffectivePrice: s.pricing.EffectiveUnitPrice(activity, discount, now),
		Schedules:      schedules,
	}, nil
}

// RecordView counts the view in redis. Counts are folded into the database by
// FlushViews; a redis failure only loses the count.
func (s *Service) RecordView(ctx context.Context, activityID int64) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, viewKey(activityID)).Err(); err != nil {
		s.log.Warn("view count increment failed",
			zap.Int64("activity_id", activityID), zap.Error(err))
	}
}

// FlushViews drains accumulated view counters into the activities table.
func (s *Service) FlushViews(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, viewKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		for _, key := range keys {
			raw, err := s.rdb.GetDel(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				return err
			}
			delta, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || delta == 0 {
				continue
			}
			activityID, err := strconv.ParseInt(key[len(viewKeyPrefix):], 10, 64)
			if err != nil {
				continue
			}
			if err := s.activities.IncrementViews(ctx, activityID, delta); err != nil {
				s.log.Warn("view count flush failed",
					zap.Int64("activity_id", activityID), zap.Error(err))
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// RunViewFlusher flushes view counters on the given interval until the
// context is cancelled.
func (s *Service) RunViewFlusher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.FlushViews(ctx); err != nil {
				s.log.Warn("view flush pass failed", zap.Error(err))
			}
		}
	}
}

func viewKey(activityID int64) string {
	return fmt.Sprintf("%s%d", viewKeyPrefix, activityID)
}

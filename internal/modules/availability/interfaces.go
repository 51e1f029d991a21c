package availability

import (
	"context"
	"time"

	"funbook/internal/domain"
)

type ScheduleLister interface {
	ListByActivity(ctx context.Context, activityID int64) ([]domain.Schedule, error)
}

type BookedCounter interface {
	SumBookedParticipants(ctx context.Context, activityID int64, date time.Time, timeSlot string) (int, error)
}

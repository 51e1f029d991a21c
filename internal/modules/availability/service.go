package availability

import (
	"context"
	"time"

	"funbook/internal/domain"
)

// Result describes the matched occurrence for a requested slot.
type Result struct {
	ScheduleID     int64  `json:"schedule_id"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Capacity       int    `json:"capacity"`
	RemainingSpots int    `json:"remaining_spots"`
}

type Service struct {
	schedules ScheduleLister
	bookings  BookedCounter
}

func NewService(schedules ScheduleLister, bookings BookedCounter) *Service {
	return &Service{schedules: schedules, bookings: bookings}
}

// Check finds the schedule occurrence covering date+time and confirms the
// remaining capacity takes the requested party. Pending and confirmed
// bookings hold spots. Remaining spots never exceed the schedule's declared
// capacity.
func (s *Service) Check(ctx context.Context, activityID int64, date time.Time, timeStr string, participants int) (*Result, error) {
	if participants <= 0 {
		return nil, ErrValidation
	}
	if _, err := domain.MinuteOfDay(timeStr); err != nil {
		return nil, ErrValidation
	}

	schedules, err := s.schedules.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	sched := matchSchedule(schedules, date.Weekday(), timeStr)
	if sched == nil {
		return nil, ErrNoSchedule
	}

	booked, err := s.bookings.SumBookedParticipants(ctx, activityID, date, timeStr)
	if err != nil {
		return nil, err
	}

	remaining := sched.Capacity - booked
	if remaining < 0 {
		remaining = 0
	}
	if remaining < participants {
		return nil, ErrInsufficientSpots
	}

	return &Result{
		ScheduleID:     sched.ID,
		StartTime:      sched.StartTime,
		EndTime:        sched.EndTime,
		Capacity:       sched.Capacity,
		RemainingSpots: remaining,
	}, nil
}

func matchSchedule(schedules []domain.Schedule, weekday time.Weekday, timeStr string) *domain.Schedule {
	for i := range schedules {
		sc := &schedules[i]
		if sc.HasWeekday(weekday) && sc.ContainsTime(timeStr) {
			return sc
		}
	}
	return nil
}

package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"funbook/internal/domain"
)

type MockScheduleLister struct {
	mock.Mock
}

func (m *MockScheduleLister) ListByActivity(ctx context.Context, activityID int64) ([]domain.Schedule, error) {
	args := m.Called(ctx, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

type MockBookedCounter struct {
	mock.Mock
}

func (m *MockBookedCounter) SumBookedParticipants(ctx context.Context, activityID int64, date time.Time, timeSlot string) (int, error) {
	args := m.Called(ctx, activityID, date, timeSlot)
	return args.Int(0), args.Error(1)
}

// Wednesday
var testDate = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

func weekdaySchedule() []domain.Schedule {
	return []domain.Schedule{
		{ID: 7, ActivityID: 1, Weekdays: 0b0111110, StartTime: "09:00", EndTime: "17:00", Capacity: 10, IsActive: true},
	}
}

func TestService_Check_Success(t *testing.T) {
	schedules := new(MockScheduleLister)
	bookings := new(MockBookedCounter)

	schedules.On("ListByActivity", mock.Anything, int64(1)).Return(weekdaySchedule(), nil)
	bookings.On("SumBookedParticipants", mock.Anything, int64(1), testDate, "10:00").Return(6, nil)

	service := NewService(schedules, bookings)

	res, err := service.Check(context.Background(), 1, testDate, "10:00", 3)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), res.ScheduleID)
	assert.Equal(t, 10, res.Capacity)
	assert.Equal(t, 4, res.RemainingSpots)
}

func TestService_Check_WrongWeekday(t *testing.T) {
	schedules := new(MockScheduleLister)
	bookings := new(MockBookedCounter)

	schedules.On("ListByActivity", mock.Anything, int64(1)).Return(weekdaySchedule(), nil)

	service := NewService(schedules, bookings)

	// Sunday
	sunday := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	_, err := service.Check(context.Background(), 1, sunday, "10:00", 2)
	assert.ErrorIs(t, err, ErrNoSchedule)
}

func TestService_Check_OutsideWindow(t *testing.T) {
	schedules := new(MockScheduleLister)
	bookings := new(MockBookedCounter)

	schedules.On("ListByActivity", mock.Anything, int64(1)).Return(weekdaySchedule(), nil)

	service := NewService(schedules, bookings)

	_, err := service.Check(context.Background(), 1, testDate, "18:00", 2)
	assert.ErrorIs(t, err, ErrNoSchedule)
}

func TestService_Check_InsufficientSpots(t *testing.T) {
	schedules := new(MockScheduleLister)
	bookings := new(MockBookedCounter)

	schedules.On("ListByActivity", mock.Anything, int64(1)).Return(weekdaySchedule(), nil)
	bookings.On("SumBookedParticipants", mock.Anything, int64(1), testDate, "10:00").Return(9, nil)

	service := NewService(schedules, bookings)

	_, err := service.Check(context.Background(), 1, testDate, "10:00", 2)
	assert.ErrorIs(t, err, ErrInsufficientSpots)
}

func TestService_Check_OverbookedClampsToZero(t *testing.T) {
	schedules := new(MockScheduleLister)
	bookings := new(MockBookedCounter)

	schedules.On("ListByActivity", mock.Anything, int64(1)).Return(weekdaySchedule(), nil)
	bookings.On("SumBookedParticipants", mock.Anything, int64(1), testDate, "10:00").Return(15, nil)

	service := NewService(schedules, bookings)

	_, err := service.Check(context.Background(), 1, testDate, "10:00", 1)
	assert.ErrorIs(t, err, ErrInsufficientSpots)
}

func TestService_Check_Validation(t *testing.T) {
	service := NewService(new(MockScheduleLister), new(MockBookedCounter))

	_, err := service.Check(context.Background(), 1, testDate, "10:00", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Check(context.Background(), 1, testDate, "bad", 2)
	assert.ErrorIs(t, err, ErrValidation)
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedule_HasWeekday(t *testing.T) {
	// Monday through Friday
	s := &Schedule{Weekdays: 0b0111110}

	assert.False(t, s.HasWeekday(time.Sunday))
	assert.True(t, s.HasWeekday(time.Monday))
	assert.True(t, s.HasWeekday(time.Friday))
	assert.False(t, s.HasWeekday(time.Saturday))
}

func TestSchedule_ContainsTime(t *testing.T) {
	s := &Schedule{StartTime: "09:00", EndTime: "17:00"}

	assert.True(t, s.ContainsTime("09:00"))
	assert.True(t, s.ContainsTime("12:30"))
	assert.True(t, s.ContainsTime("17:00"))
	assert.False(t, s.ContainsTime("08:59"))
	assert.False(t, s.ContainsTime("17:01"))
	assert.False(t, s.ContainsTime("not-a-time"))
}

func TestMinuteOfDay(t *testing.T) {
	m, err := MinuteOfDay("14:30")
	assert.NoError(t, err)
	assert.Equal(t, 870, m)

	_, err = MinuteOfDay("25:00")
	assert.Error(t, err)
}

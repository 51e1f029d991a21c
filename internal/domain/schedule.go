package domain

import (
	"time"
)

// Schedule is a recurring weekly occurrence of an activity: a set of weekdays,
// a daily time window and a fixed spot capacity.
type Schedule struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	ActivityID int64  `json:"activity_id" gorm:"index;not null"`
	Weekdays   int    `json:"weekdays" gorm:"not null"` // bitmask, bit 0 = Sunday
	StartTime  string `json:"start_time" gorm:"type:varchar(5);not null"` // "15:04"
	EndTime    string `json:"end_time" gorm:"type:varchar(5);not null"`
	Capacity   int    `json:"capacity" gorm:"not null"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Schedule) HasWeekday(d time.Weekday) bool {
	return s.Weekdays&(1<<uint(d)) != 0
}

// ContainsTime reports whether t ("15:04") falls inside [StartTime, EndTime].
func (s *Schedule) ContainsTime(t string) bool {
	tm, err := MinuteOfDay(t)
	if err != nil {
		return false
	}
	start, err := MinuteOfDay(s.StartTime)
	if err != nil {
		return false
	}
	end, err := MinuteOfDay(s.EndTime)
	if err != nil {
		return false
	}
	return tm >= start && tm <= end
}

// MinuteOfDay parses a "15:04" clock string into minutes since midnight.
func MinuteOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

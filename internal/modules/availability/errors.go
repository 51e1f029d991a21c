package availability

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNoSchedule        = errors.New("activity is not available on this day/time")
	ErrInsufficientSpots = errors.New("not enough spots available")
)

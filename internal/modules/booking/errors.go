package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("booking does not belong to user")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrActivityInactive  = errors.New("activity is not active")
	ErrParticipantBounds = errors.New("participant count outside activity bounds")
	ErrNoSpots           = errors.New("not enough spots available")
	ErrNotCancellable    = errors.New("booking cannot be cancelled")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

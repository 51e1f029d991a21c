package loyalty

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrMinRedemption      = errors.New("redemption below minimum points")
	ErrInsufficientPoints = errors.New("insufficient available points")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrForbidden          = errors.New("booking does not belong to user")
	ErrBookingPaid        = errors.New("booking is already paid")
)

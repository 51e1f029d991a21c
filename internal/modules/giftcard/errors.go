package giftcard

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("gift card not found")
	ErrCancelled       = errors.New("gift card has been cancelled")
	ErrExpired         = errors.New("gift card has expired")
	ErrNoBalance       = errors.New("gift card has no remaining balance")
	ErrBookingNotFound = errors.New("booking not found")
	ErrForbidden       = errors.New("booking does not belong to user")
	ErrBookingPaid     = errors.New("booking is already paid")
	ErrNothingToPay    = errors.New("booking has no remaining payable amount")
)

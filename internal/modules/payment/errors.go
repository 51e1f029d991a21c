package payment

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("payment not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("booking does not belong to user")
	ErrBookingCancelled = errors.New("booking is cancelled")
	ErrAlreadyPaid      = errors.New("booking already has a completed payment")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrNoRefundable     = errors.New("no completed payment to refund")
)

package coupon

import "errors"

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrInactive      = errors.New("coupon is not active")
	ErrNotYetValid   = errors.New("coupon is not valid yet")
	ErrExpired       = errors.New("coupon has expired")
	ErrExhausted     = errors.New("coupon usage limit reached")
	ErrAlreadyUsed   = errors.New("coupon already used")
	ErrMinOrder      = errors.New("order amount below coupon minimum")
	ErrNotApplicable = errors.New("coupon is not applicable to this activity")
	ErrValidation    = errors.New("validation error")
)

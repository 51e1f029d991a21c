package review

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadyReviewed  = errors.New("activity already reviewed by user")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

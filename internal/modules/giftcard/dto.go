package giftcard

import "time"

type ValidateResponse struct {
	Code      string    `json:"code"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ApplyRequest struct {
	Code      string `json:"code" binding:"required"`
	BookingID int64  `json:"booking_id" binding:"required"`
}

type ApplyResponse struct {
	Applied          float64 `json:"applied"`
	RemainingBalance float64 `json:"remaining_balance"`
	BookingTotal     float64 `json:"booking_total"`
	Redeemed         bool    `json:"redeemed"`
}

type IssueRequest struct {
	Amount         float64 `json:"amount" binding:"required,gt=0" validate:"required,gt=0,lte=100000"`
	RecipientEmail string  `json:"recipient_email" binding:"required,email" validate:"required,email"`
	RecipientName  string  `json:"recipient_name"`
	Message        string  `json:"message"`
	ValidityMonths int     `json:"validity_months"`
}

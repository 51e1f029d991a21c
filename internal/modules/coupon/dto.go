package coupon

import (
	"time"

	"funbook/internal/domain"
)

type ValidateRequest struct {
	Code        string  `json:"code" binding:"required"`
	ActivityID  int64   `json:"activity_id" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"required,gt=0"`
}

// Validation is the successful outcome of a coupon check.
type Validation struct {
	CouponID       int64               `json:"coupon_id"`
	Code           string              `json:"code"`
	DiscountType   domain.DiscountType `json:"discount_type"`
	Percentage     float64             `json:"percentage,omitempty"`
	DiscountAmount float64             `json:"discount_amount"`
}

type CreateCouponRequest struct {
	Code              string    `json:"code" binding:"required" validate:"required,min=3,max=32"`
	Description       string    `json:"description"`
	DiscountType      string    `json:"discount_type" binding:"required,oneof=percentage fixed" validate:"required,oneof=percentage fixed"`
	DiscountValue     float64   `json:"discount_value" binding:"required,gt=0" validate:"required,gt=0"`
	MinOrderAmount    float64   `json:"min_order_amount"`
	MaxDiscountAmount float64   `json:"max_discount_amount"`
	ValidFrom         time.Time `json:"valid_from" binding:"required"`
	ValidUntil        time.Time `json:"valid_until" binding:"required"`
	UsageLimit        int       `json:"usage_limit"`
	CategoryIDs       []int64   `json:"category_ids"`
}

package domain

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID            int64        `json:"id" gorm:"primaryKey"`
	Code          string       `json:"code" gorm:"uniqueIndex;not null"` // stored upper-case
	Description   string       `json:"description,omitempty"`
	DiscountType  DiscountType `json:"discount_type" gorm:"type:varchar(16);not null"`
	DiscountValue float64      `json:"discount_value" gorm:"not null"`

	MinOrderAmount    float64 `json:"min_order_amount"`
	MaxDiscountAmount float64 `json:"max_discount_amount"` // cap for percentage type, 0 = uncapped

	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	UsageLimit int       `json:"usage_limit"` // 0 = unlimited
	UsedCount  int       `json:"used_count"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`

	// Empty set means the coupon applies to every category.
	CategoryIDs []int64 `json:"category_ids,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppliesToCategory treats an empty category set as "all categories".
func (c *Coupon) AppliesToCategory(categoryID int64) bool {
	if len(c.CategoryIDs) == 0 {
		return true
	}
	for _, id := range c.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

type CouponUsage struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	CouponID       int64     `json:"coupon_id" gorm:"index;not null;uniqueIndex:idx_coupon_booking"`
	UserID         int64     `json:"user_id" gorm:"index;not null"`
	BookingID      int64     `json:"booking_id" gorm:"not null;uniqueIndex:idx_coupon_booking"`
	DiscountAmount float64   `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
}

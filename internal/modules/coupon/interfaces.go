package coupon

import (
	"context"

	"funbook/internal/domain"
)

type CouponRepository interface {
	Create(ctx context.Context, c *domain.Coupon) error
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context, limit, offset int) ([]domain.Coupon, error)
	HasUserUsage(ctx context.Context, couponID, userID int64) (bool, error)
	Redeem(ctx context.Context, couponID, userID, bookingID int64, discount float64) error
}

type ActivityReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
}

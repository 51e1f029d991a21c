package coupon

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
)

type Service struct {
	coupons    CouponRepository
	activities ActivityReader
	log        *zap.Logger
}

func NewService(coupons CouponRepository, activities ActivityReader, log *zap.Logger) *Service {
	return &Service{coupons: coupons, activities: activities, log: log}
}

// Validate runs the eligibility ladder, short-circuiting on the first
// failure, and computes the resulting discount against the order amount.
func (s *Service) Validate(ctx context.Context, code string, activityID int64, orderAmount float64, userID int64) (*Validation, error) {
	if code == "" || orderAmount <= 0 {
		return nil, ErrValidation
	}

	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !c.IsActive {
		return nil, ErrInactive
	}

	now := time.Now()
	if now.Before(c.ValidFrom) {
		return nil, ErrNotYetValid
	}
	if now.After(c.ValidUntil) {
		return nil, ErrExpired
	}

	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return nil, ErrExhausted
	}

	if c.UsageLimit == 1 {
		used, err := s.coupons.HasUserUsage(ctx, c.ID, userID)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, ErrAlreadyUsed
		}
	}

	if c.MinOrderAmount > 0 && orderAmount < c.MinOrderAmount {
		return nil, ErrMinOrder
	}

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !c.AppliesToCategory(activity.CategoryID) {
		return nil, ErrNotApplicable
	}

	discount := discountFor(c, orderAmount)

	out := &Validation{
		CouponID:       c.ID,
		Code:           c.Code,
		DiscountType:   c.DiscountType,
		DiscountAmount: discount,
	}
	if c.DiscountType == domain.DiscountPercentage {
		out.Percentage = c.DiscountValue
	}
	return out, nil
}

// Redeem consumes the coupon for a persisted booking: at most once per
// booking, enforced by the repository.
func (s *Service) Redeem(ctx context.Context, couponID, userID, bookingID int64, discount float64) error {
	if err := s.coupons.Redeem(ctx, couponID, userID, bookingID, discount); err != nil {
		s.log.Error("coupon redeem failed",
			zap.Int64("coupon_id", couponID),
			zap.Int64("booking_id", bookingID),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateCouponRequest) (*domain.Coupon, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, ErrValidation
	}

	c := &domain.Coupon{
		Code:              req.Code,
		Description:       req.Description,
		DiscountType:      domain.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		UsageLimit:        req.UsageLimit,
		IsActive:          true,
		CategoryIDs:       req.CategoryIDs,
	}
	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Coupon, error) {
	return s.coupons.List(ctx, limit, offset)
}

// discountFor: percentage of the order capped at the coupon's max, or the
// flat value; either way never more than the order amount itself.
func discountFor(c *domain.Coupon, orderAmount float64) float64 {
	var discount float64
	switch c.DiscountType {
	case domain.DiscountPercentage:
		discount = orderAmount * c.DiscountValue / 100
		if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
			discount = c.MaxDiscountAmount
		}
	default:
		discount = c.DiscountValue
	}
	if discount > orderAmount {
		discount = orderAmount
	}
	return domain.Round2(discount)
}

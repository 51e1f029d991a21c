package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"funbook/internal/domain"
)

var ErrCouponExhausted = errors.New("coupon usage limit reached")

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	c.Code = NormalizeCouponCode(c.Code)
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	tx := r.db.WithContext(ctx).Where("code = ?", NormalizeCouponCode(code)).First(&c)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &c, nil
}

func (r *CouponRepository) List(ctx context.Context, limit, offset int) ([]domain.Coupon, error) {
	var out []domain.Coupon
	tx := r.db.WithContext(ctx).Order("id").Limit(limit).Offset(offset).Find(&out)
	return out, tx.Error
}

// HasUserUsage reports whether the user has consumed the coupon before.
func (r *CouponRepository) HasUserUsage(ctx context.Context, couponID, userID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

// Redeem increments used_count and writes the usage record in one locked
// transaction. The unique (coupon_id, booking_id) index plus the limit
// re-check under the lock make the redemption at-most-once per booking.
func (r *CouponRepository) Redeem(ctx context.Context, couponID, userID, bookingID int64, discount float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c domain.Coupon
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, couponID).Error; err != nil {
			return err
		}

		if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
			return ErrCouponExhausted
		}

		usage := domain.CouponUsage{
			CouponID:       couponID,
			UserID:         userID,
			BookingID:      bookingID,
			DiscountAmount: discount,
		}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}

		return tx.Model(&domain.Coupon{}).
			Where("id = ?", couponID).
			UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
	})
}

// NormalizeCouponCode is the canonical lookup form: trimmed, upper-case.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

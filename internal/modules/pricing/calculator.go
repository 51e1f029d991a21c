package pricing

import (
	"time"

	"funbook/internal/domain"
)

// Breakdown is the money decomposition of a booking at creation time. The
// discount column only carries the coupon discount here; loyalty and gift
// card discounts are folded in later, before payment.
type Breakdown struct {
	UnitPrice      float64 `json:"unit_price"`
	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	Tax            float64 `json:"tax"`
	Commission     float64 `json:"commission"`
	ProviderPayout float64 `json:"provider_payout"`
	Total          float64 `json:"total"`
}

// Calculator composes the price of a booking. Rates are percentages.
type Calculator struct {
	TaxRatePercent    float64
	CommissionPercent float64
}

func NewCalculator(taxRatePercent, commissionPercent float64) *Calculator {
	return &Calculator{
		TaxRatePercent:    taxRatePercent,
		CommissionPercent: commissionPercent,
	}
}

// EffectiveUnitPrice resolves the per-participant price: the base price, or
// the discounted price while a time-bounded provider discount is live.
func (c *Calculator) EffectiveUnitPrice(activity *domain.Activity, discount *domain.ActivityDiscount, now time.Time) float64 {
	price := activity.Price
	if discount != nil && discount.IsLiveAt(now) {
		price = price * (1 - discount.Percentage/100)
	}
	return domain.Round2(price)
}

// Quote computes the creation-time breakdown. The coupon discount has already
// been validated and capped by the coupon resolver; it is clamped once more
// so the total can never go negative. Tax applies to the coupon-adjusted
// subtotal; commission and payout are a split of the total.
func (c *Calculator) Quote(unitPrice float64, participants int, couponDiscount float64) Breakdown {
	subtotal := domain.Round2(unitPrice * float64(participants))

	discount := CapDiscount(subtotal, couponDiscount)

	taxable := domain.Round2(subtotal - discount)
	tax := domain.Round2(taxable * c.TaxRatePercent / 100)

	total := domain.Round2(subtotal - discount + tax)
	commission, payout := domain.SplitTotal(total, c.CommissionPercent)

	return Breakdown{
		UnitPrice:      unitPrice,
		Subtotal:       subtotal,
		Discount:       discount,
		Tax:            tax,
		Commission:     commission,
		ProviderPayout: payout,
		Total:          total,
	}
}

// CapDiscount clamps a discount to the remaining payable amount, keeping the
// chain coupon -> loyalty -> gift card monotonically non-increasing and never
// negative.
func CapDiscount(remaining, want float64) float64 {
	if want <= 0 || remaining <= 0 {
		return 0
	}
	if want > remaining {
		want = remaining
	}
	return domain.Round2(want)
}

// LoyaltyDiscountValue converts redeemed points to currency at the program
// rate (100 points = ₹25).
func LoyaltyDiscountValue(points int64) float64 {
	return domain.Round2(float64(points) * domain.PointRupeeRate)
}

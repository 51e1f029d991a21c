package loyalty

import "funbook/internal/domain"

type RedeemRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
	Points    int64 `json:"points" binding:"required,gt=0"`
}

type RedeemResult struct {
	PointsRedeemed  int64   `json:"points_redeemed"`
	DiscountApplied float64 `json:"discount_applied"`
	RemainingPoints int64   `json:"remaining_points"`
}

type StatusResponse struct {
	Tier                domain.LoyaltyTier `json:"tier"`
	TierDiscountPercent float64            `json:"tier_discount_percent"`
	TotalPoints         int64              `json:"total_points"`
	AvailablePoints     int64              `json:"available_points"`
	LifetimePoints      int64              `json:"lifetime_points"`
	NextTierAt          int64              `json:"next_tier_at,omitempty"`
	Benefits            []string           `json:"benefits"`
}

package domain

import "time"

type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
)

const (
	TierSilverThreshold   = 5000
	TierGoldThreshold     = 20000
	TierPlatinumThreshold = 50000

	// MinRedeemPoints is the smallest redemption the program accepts.
	MinRedeemPoints = 100
	// PointRupeeRate converts points to currency: 100 points = ₹25.
	PointRupeeRate = 0.25

	FirstBookingBonusPoints = 250
	ReviewPoints            = 50
	LongReviewPoints        = 100
	LongReviewMinChars      = 100
)

// TierForPoints is the tier step function over lifetime points.
func TierForPoints(totalPoints int64) LoyaltyTier {
	switch {
	case totalPoints >= TierPlatinumThreshold:
		return TierPlatinum
	case totalPoints >= TierGoldThreshold:
		return TierGold
	case totalPoints >= TierSilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// TierDiscountPercent is the flat discount a tier grants.
func TierDiscountPercent(t LoyaltyTier) float64 {
	switch t {
	case TierPlatinum:
		return 15
	case TierGold:
		return 10
	case TierSilver:
		return 5
	default:
		return 0
	}
}

// TierBenefits is informational only, nothing enforces it.
func TierBenefits(t LoyaltyTier) []string {
	switch t {
	case TierPlatinum:
		return []string{"15% flat discount", "priority support", "free cancellation upgrades", "early access to new activities"}
	case TierGold:
		return []string{"10% flat discount", "priority support", "early access to new activities"}
	case TierSilver:
		return []string{"5% flat discount", "priority support"}
	default:
		return []string{"earn 1 point per rupee spent"}
	}
}

// NextTierThreshold returns the lifetime points needed for the next tier, or 0
// when already platinum.
func NextTierThreshold(t LoyaltyTier) int64 {
	switch t {
	case TierBronze:
		return TierSilverThreshold
	case TierSilver:
		return TierGoldThreshold
	case TierGold:
		return TierPlatinumThreshold
	default:
		return 0
	}
}

type LoyaltyStatus struct {
	UserID          int64       `json:"user_id" gorm:"primaryKey"`
	TotalPoints     int64       `json:"total_points"`
	AvailablePoints int64       `json:"available_points"`
	LifetimePoints  int64       `json:"lifetime_points"`
	Tier            LoyaltyTier `json:"tier" gorm:"type:varchar(16);default:'bronze'"`
	TierUpgradedAt  *time.Time  `json:"tier_upgraded_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type LoyaltyTransactionType string

const (
	LoyaltyEarnBooking LoyaltyTransactionType = "earn_booking"
	LoyaltyEarnReview  LoyaltyTransactionType = "earn_review"
	LoyaltyEarnBonus   LoyaltyTransactionType = "earn_bonus"
	LoyaltyRedeem      LoyaltyTransactionType = "redeem"
	LoyaltyExpire      LoyaltyTransactionType = "expire"
)

// LoyaltyPoint is one signed ledger entry; positive deltas earn, negative
// deltas redeem or expire. The status row is the incrementally maintained
// aggregate, the ledger is the audit trail.
type LoyaltyPoint struct {
	ID              int64                  `json:"id" gorm:"primaryKey"`
	UserID          int64                  `json:"user_id" gorm:"index;not null"`
	Points          int64                  `json:"points" gorm:"not null"`
	TransactionType LoyaltyTransactionType `json:"transaction_type" gorm:"type:varchar(24);not null"`
	ReferenceID     *int64                 `json:"reference_id,omitempty"`
	Description     string                 `json:"description,omitempty"`
	ExpiresAt       *time.Time             `json:"expires_at,omitempty" gorm:"index"`
	CreatedAt       time.Time              `json:"created_at"`
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForPoints(t *testing.T) {
	cases := []struct {
		points int64
		want   LoyaltyTier
	}{
		{0, TierBronze},
		{4999, TierBronze},
		{5000, TierSilver},
		{19999, TierSilver},
		{20000, TierGold},
		{49999, TierGold},
		{50000, TierPlatinum},
		{1000000, TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TierForPoints(tc.points), "points=%d", tc.points)
	}
}

func TestTierDiscountPercent_Monotonic(t *testing.T) {
	tiers := []LoyaltyTier{TierBronze, TierSilver, TierGold, TierPlatinum}
	prev := -1.0
	for _, tier := range tiers {
		d := TierDiscountPercent(tier)
		assert.Greater(t, d, prev, "tier %s", tier)
		prev = d
	}
	assert.Equal(t, 0.0, TierDiscountPercent(TierBronze))
	assert.Equal(t, 15.0, TierDiscountPercent(TierPlatinum))
}

func TestNextTierThreshold(t *testing.T) {
	assert.Equal(t, int64(TierSilverThreshold), NextTierThreshold(TierBronze))
	assert.Equal(t, int64(TierGoldThreshold), NextTierThreshold(TierSilver))
	assert.Equal(t, int64(TierPlatinumThreshold), NextTierThreshold(TierGold))
	assert.Equal(t, int64(0), NextTierThreshold(TierPlatinum))
}

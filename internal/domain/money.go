package domain

import "math"

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SplitTotal divides a booking total into platform commission and provider
// payout. The two are a split of the total, not additive charges.
func SplitTotal(total, commissionPercent float64) (commission, payout float64) {
	commission = Round2(total * commissionPercent / 100)
	payout = Round2(total - commission)
	return commission, payout
}

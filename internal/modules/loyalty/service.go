package loyalty

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
	"funbook/internal/modules/pricing"
)

type Service struct {
	repo              LoyaltyRepository
	bookings          BookingLedger
	commissionPercent float64
	log               *zap.Logger
}

func NewService(repo LoyaltyRepository, bookings BookingLedger, commissionPercent float64, log *zap.Logger) *Service {
	return &Service{
		repo:              repo,
		bookings:          bookings,
		commissionPercent: commissionPercent,
		log:               log,
	}
}

// Redeem converts points to a discount on an unpaid booking. The point debit
// is unconditional once accepted; the resulting discount is capped at the
// booking's remaining payable amount.
func (s *Service) Redeem(ctx context.Context, userID, bookingID, points int64) (*RedeemResult, error) {
	if points < domain.MinRedeemPoints {
		return nil, ErrMinRedemption
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.CustomerID != userID {
		return nil, ErrForbidden
	}
	if b.IsPaid() {
		return nil, ErrBookingPaid
	}

	st, err := s.repo.GetOrCreateStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st.AvailablePoints < points {
		return nil, ErrInsufficientPoints
	}

	if err := s.repo.Debit(ctx, userID, points, bookingID); err != nil {
		return nil, err
	}

	value := pricing.LoyaltyDiscountValue(points)
	applied, err := s.bookings.ApplyDiscount(ctx, bookingID, value, s.commissionPercent)
	if err != nil {
		return nil, err
	}

	return &RedeemResult{
		PointsRedeemed:  points,
		DiscountApplied: applied,
		RemainingPoints: st.AvailablePoints - points,
	}, nil
}

// AwardBookingPoints credits 1 point per currency unit of the completed
// booking's total plus the one-time first-booking bonus.
func (s *Service) AwardBookingPoints(ctx context.Context, userID, bookingID int64, totalAmount float64, firstBooking bool) error {
	points := int64(math.Floor(totalAmount))
	if points > 0 {
		desc := fmt.Sprintf("booking #%d completed", bookingID)
		if _, err := s.repo.Award(ctx, userID, points, domain.LoyaltyEarnBooking, &bookingID, desc, nil); err != nil {
			return err
		}
	}

	if firstBooking {
		if _, err := s.repo.Award(ctx, userID, domain.FirstBookingBonusPoints, domain.LoyaltyEarnBonus, &bookingID, "first booking bonus", nil); err != nil {
			return err
		}
	}
	return nil
}

// AwardReviewPoints credits 50 points per review, 100 for a substantial one.
func (s *Service) AwardReviewPoints(ctx context.Context, userID, reviewID int64, commentLength int) error {
	points := int64(domain.ReviewPoints)
	if commentLength > domain.LongReviewMinChars {
		points = domain.LongReviewPoints
	}
	_, err := s.repo.Award(ctx, userID, points, domain.LoyaltyEarnReview, &reviewID, "review submitted", nil)
	return err
}

func (s *Service) Status(ctx context.Context, userID int64) (*StatusResponse, error) {
	st, err := s.repo.GetOrCreateStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StatusResponse{
		Tier:                st.Tier,
		TierDiscountPercent: domain.TierDiscountPercent(st.Tier),
		TotalPoints:         st.TotalPoints,
		AvailablePoints:     st.AvailablePoints,
		LifetimePoints:      st.LifetimePoints,
		NextTierAt:          domain.NextTierThreshold(st.Tier),
		Benefits:            domain.TierBenefits(st.Tier),
	}, nil
}

func (s *Service) History(ctx context.Context, userID int64, limit, offset int) ([]domain.LoyaltyPoint, error) {
	return s.repo.History(ctx, userID, limit, offset)
}

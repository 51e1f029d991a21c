package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
	"funbook/internal/modules/coupon"
	"funbook/internal/modules/pricing"
	"funbook/internal/notification"
	"funbook/internal/repository"
)

type Service struct {
	bookings   BookingRepository
	activities ActivityReader
	avail      AvailabilityChecker
	pricing    *pricing.Calculator
	coupons    CouponResolver
	refunds    RefundProcessor
	loyalty    LoyaltyAwarder
	notifs     notification.Sender
	log        *zap.Logger
}

func NewService(
	bookings BookingRepository,
	activities ActivityReader,
	avail AvailabilityChecker,
	calc *pricing.Calculator,
	coupons CouponResolver,
	refunds RefundProcessor,
	loyalty LoyaltyAwarder,
	notifs notification.Sender,
	log *zap.Logger,
) *Service {
	return &Service{
		bookings:   bookings,
		activities: activities,
		avail:      avail,
		pricing:    calc,
		coupons:    coupons,
		refunds:    refunds,
		loyalty:    loyalty,
		notifs:     notifs,
		log:        log,
	}
}

// Create drives the full booking-creation flow: catalog checks, availability,
// pricing with an optional coupon, then the capacity-guarded insert. A
// supplied-but-invalid coupon is a hard error, never silently dropped.
func (s *Service) Create(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	if req.Participants <= 0 {
		return nil, ErrValidation
	}
	if _, err := domain.MinuteOfDay(req.TimeSlot); err != nil {
		return nil, ErrValidation
	}

	now := time.Now()
	// clients may send a timestamp; availability and the booked-spots sum key
	// on the bare calendar date
	date := dateOnly(req.Date)

	activity, err := s.activities.GetByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	if !activity.IsActive {
		return nil, ErrActivityInactive
	}
	if req.Participants < activity.MinParticipants || req.Participants > activity.MaxParticipants {
		return nil, ErrParticipantBounds
	}

	res, err := s.avail.Check(ctx, req.ActivityID, date, req.TimeSlot, req.Participants)
	if err != nil {
		return nil, err
	}

	discount, err := s.activities.ActiveDiscount(ctx, req.ActivityID, now)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unitPrice := s.pricing.EffectiveUnitPrice(activity, discount, now)
	subtotal := domain.Round2(unitPrice * float64(req.Participants))

	var couponApplied *coupon.Validation
	if req.CouponCode != "" {
		couponApplied, err = s.coupons.Validate(ctx, req.CouponCode, req.ActivityID, subtotal, userID)
		if err != nil {
			return nil, fmt.Errorf("coupon rejected: %w", err)
		}
	}

	var couponDiscount float64
	if couponApplied != nil {
		couponDiscount = couponApplied.DiscountAmount
	}
	breakdown := s.pricing.Quote(unitPrice, req.Participants, couponDiscount)

	b := &domain.Booking{
		Reference:       newReference(now),
		CustomerID:      userID,
		ActivityID:      req.ActivityID,
		Date:            date,
		TimeSlot:        req.TimeSlot,
		Participants:    req.Participants,
		Status:          domain.BookingPending,
		PaymentState:    domain.BookingUnpaid,
		UnitPrice:       breakdown.UnitPrice,
		Subtotal:        breakdown.Subtotal,
		DiscountAmount:  breakdown.Discount,
		TaxAmount:       breakdown.Tax,
		Commission:      breakdown.Commission,
		ProviderPayout:  breakdown.ProviderPayout,
		TotalAmount:     breakdown.Total,
		Currency:        activity.Currency,
		SpecialRequests: req.SpecialRequests,
	}
	if couponApplied != nil {
		b.CouponCode = &couponApplied.Code
		if couponApplied.Percentage > 0 {
			pct := couponApplied.Percentage
			b.CouponPercentage = &pct
		}
	}

	parts := make([]domain.BookingParticipant, 0, len(req.ParticipantList))
	for _, p := range req.ParticipantList {
		parts = append(parts, domain.BookingParticipant{Name: p.Name, Age: p.Age})
	}

	if err := s.bookings.CreateWithCapacityCheck(ctx, b, parts, res.ScheduleID); err != nil {
		if errors.Is(err, repository.ErrCapacityExceeded) {
			return nil, ErrNoSpots
		}
		return nil, err
	}

	if couponApplied != nil {
		if err := s.coupons.Redeem(ctx, couponApplied.CouponID, userID, b.ID, couponApplied.DiscountAmount); err != nil {
			// the locked redeem re-check lost the race (e.g. a concurrent
			// booking exhausted the coupon); the booking must not keep a
			// discount that was never consumed
			s.log.Warn("coupon redeem lost after booking create, stripping discount",
				zap.Int64("booking_id", b.ID),
				zap.String("code", couponApplied.Code),
				zap.Error(err))
			plain := s.pricing.Quote(unitPrice, req.Participants, 0)
			if err := s.bookings.StripCoupon(ctx, b.ID, plain.Discount, plain.Tax, plain.Commission, plain.ProviderPayout, plain.Total); err != nil {
				return nil, fmt.Errorf("stripping unredeemed coupon: %w", err)
			}
			b.CouponCode = nil
			b.CouponPercentage = nil
			b.DiscountAmount = plain.Discount
			b.TaxAmount = plain.Tax
			b.Commission = plain.Commission
			b.ProviderPayout = plain.ProviderPayout
			b.TotalAmount = plain.Total
		}
	}

	// fire-and-forget side effects, never part of the create transaction
	go func() {
		ctx := context.Background()
		if err := s.activities.IncrementBookings(ctx, b.ActivityID); err != nil {
			s.log.Warn("booking counter bump failed", zap.Int64("activity_id", b.ActivityID), zap.Error(err))
		}
		if err := s.notifs.BookingCreated(ctx, b); err != nil {
			s.log.Warn("booking created notification failed", zap.String("reference", b.Reference), zap.Error(err))
		}
	}()

	return b, nil
}

// Cancel applies the time-based refund policy and moves the booking to
// cancelled. Only the owning customer may cancel; refunds only exist for paid
// bookings.
func (s *Service) Cancel(ctx context.Context, bookingID, userID int64, reason string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.CustomerID != userID {
		return nil, ErrForbidden
	}

	now := time.Now()
	if !b.CanBeCancelled(now) {
		return nil, ErrNotCancellable
	}

	// cancel before any money moves; a refund failure then leaves a
	// cancelled booking awaiting its refund, never a refunded booking that
	// is still holding spots
	if err := s.bookings.MarkCancelled(ctx, b.ID, reason, 0, now); err != nil {
		return nil, err
	}

	var refund float64
	if b.IsPaid() {
		pct := b.RefundPercent(now)
		switch {
		case pct >= 100:
			refund, err = s.refunds.ProcessFullRefund(ctx, b.ID, reason)
		case pct > 0:
			amount := domain.Round2(b.TotalAmount * pct / 100)
			refund, err = s.refunds.ProcessPartialRefund(ctx, b.ID, amount, reason)
		}
		if err != nil {
			return nil, fmt.Errorf("booking cancelled, refund failed: %w", err)
		}
		if refund > 0 {
			if err := s.bookings.SetRefundAmount(ctx, b.ID, refund); err != nil {
				return nil, err
			}
			if err := s.bookings.UpdatePaymentState(ctx, b.ID, domain.BookingRefunded); err != nil {
				return nil, err
			}
		}
	}

	go func() {
		if err := s.notifs.BookingCancelled(context.Background(), b, reason, refund); err != nil {
			s.log.Warn("cancellation notification failed", zap.String("reference", b.Reference), zap.Error(err))
		}
	}()

	return s.bookings.GetByID(ctx, bookingID)
}

// CheckIn moves a confirmed booking to checked-in on the day of the event.
func (s *Service) CheckIn(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrInvalidTransition
	}

	if err := s.bookings.MarkCheckedIn(ctx, b.ID, time.Now()); err != nil {
		return nil, err
	}
	return s.bookings.GetByID(ctx, bookingID)
}

// Complete closes out a booking once the event has passed, then awards
// loyalty points as a detached best-effort step.
func (s *Service) Complete(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.Status != domain.BookingConfirmed && b.Status != domain.BookingCheckedIn {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if b.EventStart().After(now) {
		return nil, ErrInvalidTransition
	}

	// decided before the status flips so the bonus check cannot see this
	// booking as already completed
	hadCompleted, err := s.bookings.HasCompletedBooking(ctx, b.CustomerID)
	if err != nil {
		s.log.Warn("first-booking check failed", zap.Int64("customer_id", b.CustomerID), zap.Error(err))
		hadCompleted = true
	}

	if err := s.bookings.MarkCompleted(ctx, b.ID, now); err != nil {
		return nil, err
	}

	go func() {
		if err := s.loyalty.AwardBookingPoints(context.Background(), b.CustomerID, b.ID, b.TotalAmount, !hadCompleted); err != nil {
			s.log.Warn("loyalty award failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		}
	}()

	return s.bookings.GetByID(ctx, bookingID)
}

func (s *Service) GetByID(ctx context.Context, bookingID, userID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.CustomerID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) MyBookings(ctx context.Context, userID int64, limit, offset int) ([]repository.BookingDetails, error) {
	return s.bookings.ListByCustomer(ctx, userID, limit, offset)
}

func newReference(now time.Time) string {
	return fmt.Sprintf("FB-%s-%06d", now.Format("20060102"), rand.Intn(1000000))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package booking

import (
	"context"
	"time"

	"funbook/internal/domain"
	"funbook/internal/modules/availability"
	"funbook/internal/modules/coupon"
	"funbook/internal/repository"
)

type BookingRepository interface {
	CreateWithCapacityCheck(ctx context.Context, b *domain.Booking, parts []domain.BookingParticipant, scheduleID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]repository.BookingDetails, error)
	MarkCheckedIn(ctx context.Context, id int64, at time.Time) error
	MarkCompleted(ctx context.Context, id int64, at time.Time) error
	MarkCancelled(ctx context.Context, id int64, reason string, refund float64, at time.Time) error
	StripCoupon(ctx context.Context, id int64, discount, tax, commission, payout, total float64) error
	SetRefundAmount(ctx context.Context, id int64, amount float64) error
	UpdatePaymentState(ctx context.Context, id int64, state domain.BookingPaymentState) error
	HasCompletedBooking(ctx context.Context, customerID int64) (bool, error)
}

type ActivityReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	ActiveDiscount(ctx context.Context, activityID int64, now time.Time) (*domain.ActivityDiscount, error)
	IncrementBookings(ctx context.Context, activityID int64) error
}

type AvailabilityChecker interface {
	Check(ctx context.Context, activityID int64, date time.Time, timeStr string, participants int) (*availability.Result, error)
}

type CouponResolver interface {
	Validate(ctx context.Context, code string, activityID int64, orderAmount float64, userID int64) (*coupon.Validation, error)
	Redeem(ctx context.Context, couponID, userID, bookingID int64, discount float64) error
}

// RefundProcessor is implemented by the payment service; cancellation routes
// paid bookings through it.
type RefundProcessor interface {
	ProcessFullRefund(ctx context.Context, bookingID int64, reason string) (float64, error)
	ProcessPartialRefund(ctx context.Context, bookingID int64, amount float64, reason string) (float64, error)
}

type LoyaltyAwarder interface {
	AwardBookingPoints(ctx context.Context, userID, bookingID int64, totalAmount float64, firstBooking bool) error
}

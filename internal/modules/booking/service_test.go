package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
	"funbook/internal/modules/availability"
	"funbook/internal/modules/coupon"
	"funbook/internal/modules/pricing"
	"funbook/internal/notification"
	"funbook/internal/repository"
)

// Mock repositories

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateWithCapacityCheck(ctx context.Context, b *domain.Booking, parts []domain.BookingParticipant, scheduleID int64) error {
	args := m.Called(ctx, b, parts, scheduleID)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]repository.BookingDetails, error) {
	args := m.Called(ctx, customerID, limit, offset)
	return args.Get(0).([]repository.BookingDetails), args.Error(1)
}

func (m *MockBookingRepository) MarkCheckedIn(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) MarkCancelled(ctx context.Context, id int64, reason string, refund float64, at time.Time) error {
	args := m.Called(ctx, id, reason, refund, at)
	return args.Error(0)
}

func (m *MockBookingRepository) StripCoupon(ctx context.Context, id int64, discount, tax, commission, payout, total float64) error {
	args := m.Called(ctx, id, discount, tax, commission, payout, total)
	return args.Error(0)
}

func (m *MockBookingRepository) SetRefundAmount(ctx context.Context, id int64, amount float64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdatePaymentState(ctx context.Context, id int64, state domain.BookingPaymentState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockBookingRepository) HasCompletedBooking(ctx context.Context, customerID int64) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

type MockActivityReader struct {
	mock.Mock
}

func (m *MockActivityReader) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockActivityReader) ActiveDiscount(ctx context.Context, activityID int64, now time.Time) (*domain.ActivityDiscount, error) {
	args := m.Called(ctx, activityID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivityDiscount), args.Error(1)
}

func (m *MockActivityReader) IncrementBookings(ctx context.Context, activityID int64) error {
	args := m.Called(ctx, activityID)
	return args.Error(0)
}

type MockAvailabilityChecker struct {
	mock.Mock
}

func (m *MockAvailabilityChecker) Check(ctx context.Context, activityID int64, date time.Time, timeStr string, participants int) (*availability.Result, error) {
	args := m.Called(ctx, activityID, date, timeStr, participants)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.Result), args.Error(1)
}

type MockCouponResolver struct {
	mock.Mock
}

func (m *MockCouponResolver) Validate(ctx context.Context, code string, activityID int64, orderAmount float64, userID int64) (*coupon.Validation, error) {
	args := m.Called(ctx, code, activityID, orderAmount, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Validation), args.Error(1)
}

func (m *MockCouponResolver) Redeem(ctx context.Context, couponID, userID, bookingID int64, discount float64) error {
	args := m.Called(ctx, couponID, userID, bookingID, discount)
	return args.Error(0)
}

type MockRefundProcessor struct {
	mock.Mock
}

func (m *MockRefundProcessor) ProcessFullRefund(ctx context.Context, bookingID int64, reason string) (float64, error) {
	args := m.Called(ctx, bookingID, reason)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRefundProcessor) ProcessPartialRefund(ctx context.Context, bookingID int64, amount float64, reason string) (float64, error) {
	args := m.Called(ctx, bookingID, amount, reason)
	return args.Get(0).(float64), args.Error(1)
}

type MockLoyaltyAwarder struct {
	mock.Mock
}

func (m *MockLoyaltyAwarder) AwardBookingPoints(ctx context.Context, userID, bookingID int64, totalAmount float64, firstBooking bool) error {
	args := m.Called(ctx, userID, bookingID, totalAmount, firstBooking)
	return args.Error(0)
}

type fixture struct {
	bookings   *MockBookingRepository
	activities *MockActivityReader
	avail      *MockAvailabilityChecker
	coupons    *MockCouponResolver
	refunds    *MockRefundProcessor
	loyalty    *MockLoyaltyAwarder
	service    *Service
}

func newFixture() *fixture {
	f := &fixture{
		bookings:   new(MockBookingRepository),
		activities: new(MockActivityReader),
		avail:      new(MockAvailabilityChecker),
		coupons:    new(MockCouponResolver),
		refunds:    new(MockRefundProcessor),
		loyalty:    new(MockLoyaltyAwarder),
	}
	log := zap.NewNop()
	f.service = NewService(
		f.bookings, f.activities, f.avail,
		pricing.NewCalculator(0, 10),
		f.coupons, f.refunds, f.loyalty,
		notification.NewLogSender(log), log,
	)
	return f
}

func kayaking() *domain.Activity {
	return &domain.Activity{
		ID:              1,
		CategoryID:      2,
		Price:           1000,
		Currency:        "INR",
		MinParticipants: 1,
		MaxParticipants: 10,
		IsActive:        true,
	}
}

var futureDate = time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC)

func TestService_Create_Success(t *testing.T) {
	f := newFixture()

	f.activities.On("GetByID", mock.Anything, int64(1)).Return(kayaking(), nil)
	f.avail.On("Check", mock.Anything, int64(1), futureDate, "10:00", 2).Return(&availability.Result{
		ScheduleID: 7, Capacity: 12, RemainingSpots: 5,
	}, nil)
	f.activities.On("ActiveDiscount", mock.Anything, int64(1), mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.bookings.On("CreateWithCapacityCheck", mock.Anything, mock.Anything, mock.Anything, int64(7)).Return(nil)
	f.activities.On("IncrementBookings", mock.Anything, int64(1)).Return(nil).Maybe()

	b, err := f.service.Create(context.Background(), 42, CreateBookingRequest{
		ActivityID:   1,
		Date:         futureDate,
		TimeSlot:     "10:00",
		Participants: 2,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2000.0, b.TotalAmount)
	assert.Equal(t, 200.0, b.Commission)
	assert.Equal(t, 1800.0, b.ProviderPayout)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Regexp(t, `^FB-\d{8}-\d{6}$`, b.Reference)
}

func TestService_Create_WithCoupon(t *testing.T) {
	f := newFixture()

	f.activities.On("GetByID", mock.Anything, int64(1)).Return(kayaking(), nil)
	f.avail.On("Check", mock.Anything, int64(1), futureDate, "10:00", 2).Return(&availability.Result{
		ScheduleID: 7,
	}, nil)
	f.activities.On("ActiveDiscount", mock.Anything, int64(1), mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.coupons.On("Validate", mock.Anything, "SAVE10", int64(1), 2000.0, int64(42)).Return(&coupon.Validation{
		CouponID:       3,
		Code:           "SAVE10",
		DiscountType:   domain.DiscountPercentage,
		Percentage:     10,
		DiscountAmount: 150,
	}, nil)
	f.bookings.On("CreateWithCapacityCheck", mock.Anything, mock.Anything, mock.Anything, int64(7)).Return(nil)
	f.coupons.On("Redeem", mock.Anything, int64(3), int64(42), int64(999), 150.0).Return(nil)
	f.activities.On("IncrementBookings", mock.Anything, int64(1)).Return(nil).Maybe()

	b, err := f.service.Create(context.Background(), 42, CreateBookingRequest{
		ActivityID:   1,
		Date:         futureDate,
		TimeSlot:     "10:00",
		Participants: 2,
		CouponCode:   "SAVE10",
	})

	assert.NoError(t, err)
	assert.Equal(t, 150.0, b.DiscountAmount)
	assert.Equal(t, 1850.0, b.TotalAmount)
	assert.Equal(t, "SAVE10", *b.CouponCode)
	f.coupons.AssertCalled(t, "Redeem", mock.Anything, int64(3), int64(42), int64(999), 150.0)
}

func TestService_Create_CouponRedeemRaceStripsDiscount(t *testing.T) {
	// a concurrent booking exhausts the coupon between validation and the
	// locked redeem; the persisted booking loses the discount
	f := newFixture()

	f.activities.On("GetByID", mock.Anything, int64(1)).Return(kayaking(), nil)
	f.avail.On("Check", mock.Anything, int64(1), futureDate, "10:00", 2).Return(&availability.Result{
		ScheduleID: 7,
	}, nil)
	f.activities.On("ActiveDiscount", mock.Anything, int64(1), mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.coupons.On("Validate", mock.Anything, "SAVE10", int64(1), 2000.0, int64(42)).Return(&coupon.Validation{
		CouponID:       3,
		Code:           "SAVE10",
		DiscountType:   domain.DiscountPercentage,
		Percentage:     10,
		DiscountAmount: 150,
	}, nil)
	f.bookings.On("CreateWithCapacityCheck", mock.Anything, mock.Anything, mock.Anything, int64(7)).Return(nil)
	f.coupons.On("Redeem", mock.Anything, int64(3), int64(42), int64(999), 150.0).Return(repository.ErrCouponExhausted)
	f.bookings.On("StripCoupon", mock.Anything, int64(999), 0.0, 0.0, 200.0, 1800.0, 2000.0).Return(nil)
	f.activities.On("IncrementBookings", mock.Anything, int64(1)).Return(nil).Maybe()

	b, err := f.service.Create(context.Background(), 42, CreateBookingRequest{
		ActivityID:   1,
		Date:         futureDate,
		TimeSlot:     "10:00",
		Participants: 2,
		CouponCode:   "SAVE10",
	})

	assert.NoError(t, err)
	assert.Nil(t, b.CouponCode)
	assert.Equal(t, 0.0, b.DiscountAmount)
	assert.Equal(t, 2000.0, b.TotalAmount)
	f.bookings.AssertCalled(t, "StripCoupon", mock.Anything, int64(999), 0.0, 0.0, 200.0, 1800.0, 2000.0)
}

func TestService_Create_NormalizesClientTimestamp(t *testing.T) {
	f := newFixture()

	f.activities.On("GetByID", mock.Anything, int64(1)).Return(kayaking(), nil)
	// the mock only matches the bare calendar date, so an unnormalized
	// timestamp reaching the availability check fails the test
	f.avail.On("Check", mock.Anything, int64(1), futureDate, "10:00", 2).Return(&availability.Result{
		ScheduleID: 7,
	}, nil)
	f.activities.On("ActiveDiscount", mock.Anything, int64(1), mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.bookings.On("CreateWithCapacityCheck", mock.Anything, mock.Anything, mock.Anything, int64(7)).Return(nil)
	f.activities.On("IncrementBookings", mock.Anything, int64(1)).Return(nil).Maybe()

	ist := time.FixedZone("IST", 5*3600+1800)
	b, err := f.service.Create(context.Background(), 42, CreateBookingRequest{
		ActivityID:   1,
		Date:         time.Date(2026, 12, 30, 18, 30, 0, 0, ist),
		TimeSlot:     "10:00",
		Participants: 2,
	})

	assert.NoError(t, err)
	assert.True(t, b.Date.Equal(futureDate))
}

func TestService_Create_InvalidCouponAborts(t *testing.T) {
	f := newFixture()

	f.activities.On("GetByID", mock.Anything, int64(1)).Return(kayaking(), nil)
	f.avail.On("Check", mock.Anything, int64(1), futureDate, "10:00", 2).Return(&availability.Result{ScheduleID: 7}, nil)
	f.activities.On("ActiveDiscount", mock.Anything, int64(1), mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.coupons.On("Validate", mock.Anything, "DEAD", int64(1), 2000.0, int64(42)).Return(nil, coupon.ErrExpired)

	_, err := f.service.Create(context.Background(), 42, CreateBookingRequest{
		ActivityID:   1,
		Date:         futureDate,
		TimeSlot:     "10:00",
		Participants: 2,
		CouponCode:   "DEAD",
	})

	assert.ErrorIs(t, err, coupon.ErrExpired)
	f.bookings.AssertNotCalled(t, "CreateWithCapacityCheck", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_ParticipantBounds(t *testing.T) {
	f := newFixture()

	a := kayaking()
	a.MinParticipants = 2
	f.activities.On("GetByID", mock.Anything, int64(1)).Return(a, nil)

	_, err := f.service.Create(context.Background(), 42, CreateBookingRequest{
		ActivityID:   1,
		Date:         futureDate,
		TimeSlot:     "10:00",
		Participants: 1,
	})
	assert.ErrorIs(t, err, ErrParticipantBounds)
}

func TestService_Create_InactiveActivity(t *testing.T) {
	f := newFixture()

	a := kayaking()
	a.IsActive = false
	f.activities.On("GetByID", mock.Anything, int64(1)).Return(a, nil)

	_, err := f.service.Create(context.Background(), 42, CreateBookingRequest{
		ActivityID:   1,
		Date:         futureDate,
		TimeSlot:     "10:00",
		Participants: 2,
	})
	assert.ErrorIs(t, err, ErrActivityInactive)
}

func TestService_Create_CapacityRace(t *testing.T) {
	f := newFixture()

	f.activities.On("GetByID", mock.Anything, int64(1)).Return(kayaking(), nil)
	f.avail.On("Check", mock.Anything, int64(1), futureDate, "10:00", 2).Return(&availability.Result{ScheduleID: 7}, nil)
	f.activities.On("ActiveDiscount", mock.Anything, int64(1), mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.bookings.On("CreateWithCapacityCheck", mock.Anything, mock.Anything, mock.Anything, int64(7)).Return(repository.ErrCapacityExceeded)

	_, err := f.service.Create(context.Background(), 42, CreateBookingRequest{
		ActivityID:   1,
		Date:         futureDate,
		TimeSlot:     "10:00",
		Participants: 2,
	})
	assert.ErrorIs(t, err, ErrNoSpots)
}

// paidBookingStartingIn builds a paid, confirmed booking whose event starts
// the given duration from now.
func paidBookingStartingIn(d time.Duration) *domain.Booking {
	start := time.Now().Add(d)
	return &domain.Booking{
		ID:           9,
		CustomerID:   42,
		Date:         time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		TimeSlot:     start.Format("15:04"),
		Status:       domain.BookingConfirmed,
		PaymentState: domain.BookingPaid,
		TotalAmount:  1850,
	}
}

func TestService_Cancel_FullRefundTier(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(49 * time.Hour)
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)
	f.bookings.On("MarkCancelled", mock.Anything, int64(9), "weather", 0.0, mock.Anything).Return(nil)
	f.refunds.On("ProcessFullRefund", mock.Anything, int64(9), "weather").Return(1850.0, nil)
	f.bookings.On("SetRefundAmount", mock.Anything, int64(9), 1850.0).Return(nil)
	f.bookings.On("UpdatePaymentState", mock.Anything, int64(9), domain.BookingRefunded).Return(nil)

	_, err := f.service.Cancel(context.Background(), 9, 42, "weather")

	assert.NoError(t, err)
	f.refunds.AssertCalled(t, "ProcessFullRefund", mock.Anything, int64(9), "weather")
	f.bookings.AssertCalled(t, "SetRefundAmount", mock.Anything, int64(9), 1850.0)
}

func TestService_Cancel_HalfRefundTier(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(30 * time.Hour)
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)
	f.bookings.On("MarkCancelled", mock.Anything, int64(9), "plans changed", 0.0, mock.Anything).Return(nil)
	f.refunds.On("ProcessPartialRefund", mock.Anything, int64(9), 925.0, "plans changed").Return(925.0, nil)
	f.bookings.On("SetRefundAmount", mock.Anything, int64(9), 925.0).Return(nil)
	f.bookings.On("UpdatePaymentState", mock.Anything, int64(9), domain.BookingRefunded).Return(nil)

	_, err := f.service.Cancel(context.Background(), 9, 42, "plans changed")

	assert.NoError(t, err)
	f.refunds.AssertCalled(t, "ProcessPartialRefund", mock.Anything, int64(9), 925.0, "plans changed")
}

func TestService_Cancel_RefundFailureKeepsCancelled(t *testing.T) {
	// the booking is cancelled before the refund is attempted; a gateway
	// failure surfaces the error without rolling the cancellation back
	f := newFixture()

	b := paidBookingStartingIn(49 * time.Hour)
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)
	f.bookings.On("MarkCancelled", mock.Anything, int64(9), "weather", 0.0, mock.Anything).Return(nil)
	f.refunds.On("ProcessFullRefund", mock.Anything, int64(9), "weather").Return(0.0, errors.New("gateway down"))

	_, err := f.service.Cancel(context.Background(), 9, 42, "weather")

	assert.Error(t, err)
	f.bookings.AssertCalled(t, "MarkCancelled", mock.Anything, int64(9), "weather", 0.0, mock.Anything)
	f.bookings.AssertNotCalled(t, "SetRefundAmount", mock.Anything, mock.Anything, mock.Anything)
	f.bookings.AssertNotCalled(t, "UpdatePaymentState", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_NoRefundTier(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(2 * time.Hour)
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)
	f.bookings.On("MarkCancelled", mock.Anything, int64(9), "late", 0.0, mock.Anything).Return(nil)

	_, err := f.service.Cancel(context.Background(), 9, 42, "late")

	assert.NoError(t, err)
	f.refunds.AssertNotCalled(t, "ProcessFullRefund", mock.Anything, mock.Anything, mock.Anything)
	f.refunds.AssertNotCalled(t, "ProcessPartialRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.bookings.AssertNotCalled(t, "UpdatePaymentState", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_UnpaidSkipsRefund(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(72 * time.Hour)
	b.PaymentState = domain.BookingUnpaid
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)
	f.bookings.On("MarkCancelled", mock.Anything, int64(9), "changed mind", 0.0, mock.Anything).Return(nil)

	_, err := f.service.Cancel(context.Background(), 9, 42, "changed mind")

	assert.NoError(t, err)
	f.refunds.AssertNotCalled(t, "ProcessFullRefund", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_PastEvent(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(-2 * time.Hour)
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)

	_, err := f.service.Cancel(context.Background(), 9, 42, "too late")
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestService_Cancel_WrongOwner(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(72 * time.Hour)
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)

	_, err := f.service.Cancel(context.Background(), 9, 7, "not mine")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_CheckIn_RequiresConfirmed(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(time.Hour)
	b.Status = domain.BookingPending
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)

	_, err := f.service.CheckIn(context.Background(), 9)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_Complete_AwardsFirstBookingBonus(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(-3 * time.Hour)
	b.Status = domain.BookingCheckedIn
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)
	f.bookings.On("HasCompletedBooking", mock.Anything, int64(42)).Return(false, nil)
	f.bookings.On("MarkCompleted", mock.Anything, int64(9), mock.Anything).Return(nil)

	done := make(chan struct{})
	f.loyalty.On("AwardBookingPoints", mock.Anything, int64(42), int64(9), 1850.0, true).
		Run(func(mock.Arguments) { close(done) }).Return(nil)

	_, err := f.service.Complete(context.Background(), 9)

	assert.NoError(t, err)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loyalty award was not invoked")
	}
}

func TestService_Complete_BeforeEvent(t *testing.T) {
	f := newFixture()

	b := paidBookingStartingIn(3 * time.Hour)
	f.bookings.On("GetByID", mock.Anything, int64(9)).Return(b, nil)

	_, err := f.service.Complete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

package giftcard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
	"funbook/internal/notification"
	"funbook/internal/repository"
)

type MockGiftCardRepository struct {
	mock.Mock
}

func (m *MockGiftCardRepository) Create(ctx context.Context, card *domain.GiftCard) error {
	args := m.Called(ctx, card)
	if card != nil {
		card.ID = 77
	}
	return args.Error(0)
}

func (m *MockGiftCardRepository) GetByCode(ctx context.Context, code string) (*domain.GiftCard, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GiftCard), args.Error(1)
}

func (m *MockGiftCardRepository) MarkExpired(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGiftCardRepository) Apply(ctx context.Context, cardID, bookingID int64, commissionPercent float64) (*repository.ApplyResult, error) {
	args := m.Called(ctx, cardID, bookingID, commissionPercent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ApplyResult), args.Error(1)
}

func (m *MockGiftCardRepository) Transactions(ctx context.Context, cardID int64) ([]domain.GiftCardTransaction, error) {
	args := m.Called(ctx, cardID)
	return args.Get(0).([]domain.GiftCardTransaction), args.Error(1)
}

type MockBookingReader struct {
	mock.Mock
}

func (m *MockBookingReader) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func activeCard() *domain.GiftCard {
	return &domain.GiftCard{
		ID:             5,
		Code:           "FB-1111-2222-3333",
		OriginalAmount: 500,
		Balance:        500,
		Currency:       "INR",
		Status:         domain.GiftCardActive,
		ExpiresAt:      time.Now().AddDate(0, 6, 0),
	}
}

func newTestService(cards *MockGiftCardRepository, bookings *MockBookingReader) *Service {
	return NewService(cards, bookings, notification.NewLogSender(zap.NewNop()), 10, zap.NewNop())
}

func TestService_Validate_Success(t *testing.T) {
	cards := new(MockGiftCardRepository)

	cards.On("GetByCode", mock.Anything, "FB-1111-2222-3333").Return(activeCard(), nil)

	service := newTestService(cards, new(MockBookingReader))

	v, err := service.Validate(context.Background(), "fb-1111-2222-3333")

	assert.NoError(t, err)
	assert.Equal(t, 500.0, v.Balance)
}

func TestService_Validate_LazyExpiry(t *testing.T) {
	cards := new(MockGiftCardRepository)

	card := activeCard()
	card.ExpiresAt = time.Now().Add(-time.Hour)
	cards.On("GetByCode", mock.Anything, "FB-1111-2222-3333").Return(card, nil)
	cards.On("MarkExpired", mock.Anything, int64(5)).Return(nil)

	service := newTestService(cards, new(MockBookingReader))

	_, err := service.Validate(context.Background(), "FB-1111-2222-3333")

	assert.ErrorIs(t, err, ErrExpired)
	cards.AssertCalled(t, "MarkExpired", mock.Anything, int64(5))
}

func TestService_Validate_NotFound(t *testing.T) {
	cards := new(MockGiftCardRepository)

	cards.On("GetByCode", mock.Anything, "FB-0000-0000-0000").Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(cards, new(MockBookingReader))

	_, err := service.Validate(context.Background(), "FB-0000-0000-0000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Apply_PartialConsumption(t *testing.T) {
	cards := new(MockGiftCardRepository)
	bookings := new(MockBookingReader)

	cards.On("GetByCode", mock.Anything, "FB-1111-2222-3333").Return(activeCard(), nil)
	bookings.On("GetByID", mock.Anything, int64(9)).Return(&domain.Booking{
		ID: 9, CustomerID: 42, TotalAmount: 300, PaymentState: domain.BookingUnpaid,
	}, nil)
	cards.On("Apply", mock.Anything, int64(5), int64(9), 10.0).Return(&repository.ApplyResult{
		Applied:    300,
		NewBalance: 200,
		NewTotal:   0,
		Redeemed:   false,
	}, nil)

	service := newTestService(cards, bookings)

	res, err := service.Apply(context.Background(), 42, ApplyRequest{Code: "FB-1111-2222-3333", BookingID: 9})

	assert.NoError(t, err)
	assert.Equal(t, 300.0, res.Applied)
	assert.Equal(t, 200.0, res.RemainingBalance)
	assert.Equal(t, 0.0, res.BookingTotal)
	assert.False(t, res.Redeemed)
}

func TestService_Apply_WrongOwner(t *testing.T) {
	cards := new(MockGiftCardRepository)
	bookings := new(MockBookingReader)

	cards.On("GetByCode", mock.Anything, "FB-1111-2222-3333").Return(activeCard(), nil)
	bookings.On("GetByID", mock.Anything, int64(9)).Return(&domain.Booking{
		ID: 9, CustomerID: 7, PaymentState: domain.BookingUnpaid,
	}, nil)

	service := newTestService(cards, bookings)

	_, err := service.Apply(context.Background(), 42, ApplyRequest{Code: "FB-1111-2222-3333", BookingID: 9})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Apply_AlreadyPaid(t *testing.T) {
	cards := new(MockGiftCardRepository)
	bookings := new(MockBookingReader)

	cards.On("GetByCode", mock.Anything, "FB-1111-2222-3333").Return(activeCard(), nil)
	bookings.On("GetByID", mock.Anything, int64(9)).Return(&domain.Booking{
		ID: 9, CustomerID: 42, PaymentState: domain.BookingPaid,
	}, nil)

	service := newTestService(cards, bookings)

	_, err := service.Apply(context.Background(), 42, ApplyRequest{Code: "FB-1111-2222-3333", BookingID: 9})
	assert.ErrorIs(t, err, ErrBookingPaid)
}

func TestService_Issue_GeneratesCode(t *testing.T) {
	cards := new(MockGiftCardRepository)

	cards.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(cards, new(MockBookingReader))

	card, err := service.Issue(context.Background(), 42, IssueRequest{
		Amount:         1000,
		RecipientEmail: "friend@example.com",
	})

	assert.NoError(t, err)
	assert.Regexp(t, `^FB-\d{4}-\d{4}-\d{4}$`, card.Code)
	assert.Equal(t, 1000.0, card.Balance)
	assert.Equal(t, domain.GiftCardActive, card.Status)
}

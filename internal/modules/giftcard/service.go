package giftcard

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
	"funbook/internal/notification"
	"funbook/internal/repository"
)

const defaultValidityMonths = 12

type Service struct {
	cards             GiftCardRepository
	bookings          BookingReader
	notifs            notification.Sender
	commissionPercent float64
	log               *zap.Logger
}

func NewService(cards GiftCardRepository, bookings BookingReader, notifs notification.Sender, commissionPercent float64, log *zap.Logger) *Service {
	return &Service{
		cards:             cards,
		bookings:          bookings,
		notifs:            notifs,
		commissionPercent: commissionPercent,
		log:               log,
	}
}

// Validate looks the card up and checks it is consumable. An overdue card is
// lazily transitioned to expired on read.
func (s *Service) Validate(ctx context.Context, code string) (*ValidateResponse, error) {
	card, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	return &ValidateResponse{
		Code:      card.Code,
		Balance:   card.Balance,
		Currency:  card.Currency,
		ExpiresAt: card.ExpiresAt,
	}, nil
}

// Apply consumes up to min(booking total, card balance) from the card. The
// repository re-reads the live balance under a lock, so repeated partial
// applications can never over-consume.
func (s *Service) Apply(ctx context.Context, userID int64, req ApplyRequest) (*ApplyResponse, error) {
	card, err := s.lookup(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID)
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

	res, err := s.cards.Apply(ctx, card.ID, b.ID, s.commissionPercent)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGiftCardDrained):
			return nil, ErrNoBalance
		case errors.Is(err, repository.ErrNothingToConsume):
			return nil, ErrNothingToPay
		}
		return nil, err
	}

	return &ApplyResponse{
		Applied:          res.Applied,
		RemainingBalance: res.NewBalance,
		BookingTotal:     res.NewTotal,
		Redeemed:         res.Redeemed,
	}, nil
}

// Issue creates a new card with a generated FB-####-####-#### code.
func (s *Service) Issue(ctx context.Context, purchaserID int64, req IssueRequest) (*domain.GiftCard, error) {
	months := req.ValidityMonths
	if months <= 0 {
		months = defaultValidityMonths
	}

	card := &domain.GiftCard{
		OriginalAmount: domain.Round2(req.Amount),
		Balance:        domain.Round2(req.Amount),
		Currency:       "INR",
		PurchaserID:    purchaserID,
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
		Message:        req.Message,
		Status:         domain.GiftCardActive,
		ExpiresAt:      time.Now().AddDate(0, months, 0),
	}

	// retry on the rare code collision
	for attempt := 0; attempt < 5; attempt++ {
		card.Code = newCode()
		err := s.cards.Create(ctx, card)
		if err == nil {
			break
		}
		if !repository.IsUniqueViolation(err) || attempt == 4 {
			return nil, err
		}
	}

	go func() {
		if err := s.notifs.GiftCardIssued(context.Background(), card); err != nil {
			s.log.Warn("gift card notification failed", zap.String("code", card.Code), zap.Error(err))
		}
	}()

	return card, nil
}

func (s *Service) Transactions(ctx context.Context, code string) ([]domain.GiftCardTransaction, error) {
	card, err := s.cards.GetByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.cards.Transactions(ctx, card.ID)
}

func (s *Service) lookup(ctx context.Context, code string) (*domain.GiftCard, error) {
	if code == "" {
		return nil, ErrValidation
	}

	card, err := s.cards.GetByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch card.Status {
	case domain.GiftCardCancelled:
		return nil, ErrCancelled
	case domain.GiftCardExpired:
		return nil, ErrExpired
	case domain.GiftCardRedeemed:
		return nil, ErrNoBalance
	}

	if card.IsExpiredAt(time.Now()) {
		if err := s.cards.MarkExpired(ctx, card.ID); err != nil {
			s.log.Warn("lazy expiry failed", zap.String("code", card.Code), zap.Error(err))
		}
		return nil, ErrExpired
	}

	if card.Balance <= 0 {
		return nil, ErrNoBalance
	}
	return card, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func newCode() string {
	return fmt.Sprintf("FB-%04d-%04d-%04d", rand.Intn(10000), rand.Intn(10000), rand.Intn(10000))
}

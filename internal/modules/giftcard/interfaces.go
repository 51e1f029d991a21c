package giftcard

import (
	"context"

	"funbook/internal/domain"
	"funbook/internal/repository"
)

type GiftCardRepository interface {
	Create(ctx context.Context, card *domain.GiftCard) error
	GetByCode(ctx context.Context, code string) (*domain.GiftCard, error)
	MarkExpired(ctx context.Context, id int64) error
	Apply(ctx context.Context, cardID, bookingID int64, commissionPercent float64) (*repository.ApplyResult, error)
	Transactions(ctx context.Context, cardID int64) ([]domain.GiftCardTransaction, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

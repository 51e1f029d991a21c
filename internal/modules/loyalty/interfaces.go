package loyalty

import (
	"context"
	"time"

	"funbook/internal/domain"
)

type LoyaltyRepository interface {
	GetOrCreateStatus(ctx context.Context, userID int64) (*domain.LoyaltyStatus, error)
	Award(ctx context.Context, userID int64, points int64, txType domain.LoyaltyTransactionType, referenceID *int64, description string, expiresAt *time.Time) (*domain.LoyaltyStatus, error)
	Debit(ctx context.Context, userID int64, points int64, bookingID int64) error
	History(ctx context.Context, userID int64, limit, offset int) ([]domain.LoyaltyPoint, error)
}

type BookingLedger interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ApplyDiscount(ctx context.Context, bookingID int64, amount, commissionPercent float64) (float64, error)
}

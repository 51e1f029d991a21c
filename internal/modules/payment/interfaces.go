package payment

import (
	"context"
	"time"

	"funbook/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByGatewayOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	GetPendingByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error)
	GetCompletedByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error)
	HasCompleted(ctx context.Context, bookingID int64) (bool, error)
	UpdateOrder(ctx context.Context, id int64, gatewayOrderID string, amount float64) error
	MarkCompleted(ctx context.Context, id int64, gatewayPaymentID string, paidAt time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string) error
	MarkRefunded(ctx context.Context, id int64, refundID string, amount float64, reason string, full bool) error
}

type bookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

// bookingWriter is the slice of the booking store payment completion needs:
// confirm the booking and flip its payment state as one logical step.
type bookingWriter interface {
	MarkConfirmed(ctx context.Context, id int64, at time.Time) error
	UpdatePaymentState(ctx context.Context, id int64, state domain.BookingPaymentState) error
}

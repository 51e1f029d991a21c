package notification

import (
	"context"

	"go.uber.org/zap"

	"funbook/internal/domain"
)

// Sender is the outbound notification boundary. Delivery failure is never
// fatal to the business operation that triggered it.
type Sender interface {
	BookingCreated(ctx context.Context, b *domain.Booking) error
	BookingConfirmed(ctx context.Context, b *domain.Booking) error
	BookingCancelled(ctx context.Context, b *domain.Booking, reason string, refund float64) error
	PaymentReceived(ctx context.Context, b *domain.Booking, amount float64) error
	GiftCardIssued(ctx context.Context, card *domain.GiftCard) error
}

// LogSender writes notifications to the log instead of delivering them. It is
// the default wiring until a mail provider is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) BookingCreated(_ context.Context, b *domain.Booking) error {
	s.log.Info("notify booking created",
		zap.String("reference", b.Reference),
		zap.Int64("customer_id", b.CustomerID))
	return nil
}

func (s *LogSender) BookingConfirmed(_ context.Context, b *domain.Booking) error {
	s.log.Info("notify booking confirmed",
		zap.String("reference", b.Reference),
		zap.Int64("customer_id", b.CustomerID))
	return nil
}

func (s *LogSender) BookingCancelled(_ context.Context, b *domain.Booking, reason string, refund float64) error {
	s.log.Info("notify booking cancelled",
		zap.String("reference", b.Reference),
		zap.String("reason", reason),
		zap.Float64("refund", refund))
	return nil
}

func (s *LogSender) PaymentReceived(_ context.Context, b *domain.Booking, amount float64) error {
	s.log.Info("notify payment received",
		zap.String("reference", b.Reference),
		zap.Float64("amount", amount))
	return nil
}

func (s *LogSender) GiftCardIssued(_ context.Context, card *domain.GiftCard) error {
	s.log.Info("notify gift card issued",
		zap.String("code", card.Code),
		zap.String("recipient", card.RecipientEmail))
	return nil
}

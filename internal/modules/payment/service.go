package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"funbook/internal/domain"
	"funbook/internal/notification"
)

const gatewayName = "razorpay"

type Service struct {
	payments PaymentRepository
	bookings bookingReader
	writer   bookingWriter
	gateway  Gateway
	notifs   notification.Sender
	log      *zap.Logger

	keyID         string
	keySecret     string
	webhookSecret string
}

func NewService(
	payments PaymentRepository,
	bookings bookingReader,
	writer bookingWriter,
	gateway Gateway,
	notifs notification.Sender,
	log *zap.Logger,
	keyID, keySecret, webhookSecret string,
) *Service {
	return &Service{
		payments:      payments,
		bookings:      bookings,
		writer:        writer,
		gateway:       gateway,
		notifs:        notifs,
		log:           log,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// Initiate creates (or reuses) the pending payment for a booking and asks the
// gateway for an order. A booking whose payable amount already reached zero
// through discounts settles immediately without touching the gateway.
func (s *Service) Initiate(ctx context.Context, bookingID, userID int64) (*CheckoutParams, error) {
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
	if b.Status == domain.BookingCancelled {
		return nil, ErrBookingCancelled
	}

	paid, err := s.payments.HasCompleted(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, ErrAlreadyPaid
	}

	amount := b.PayableAmount()
	if amount <= 0 {
		return s.settleZeroAmount(ctx, b)
	}

	p, err := s.payments.GetPendingByBooking(ctx, bookingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = &domain.Payment{
			BookingID: bookingID,
			Reference: uuid.NewString(),
			Amount:    amount,
			Currency:  b.Currency,
			Gateway:   gatewayName,
			Status:    domain.PaymentPending,
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, toMinor(amount), b.Currency, b.Reference, map[string]string{
		"booking_reference": b.Reference,
	})
	if err != nil {
		s.log.Error("gateway order creation failed",
			zap.Int64("booking_id", bookingID),
			zap.Error(err))
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}

	if err := s.payments.UpdateOrder(ctx, p.ID, order.ID, amount); err != nil {
		return nil, err
	}

	return &CheckoutParams{
		KeyID:       s.keyID,
		OrderID:     order.ID,
		AmountMinor: toMinor(amount),
		Amount:      amount,
		Currency:    b.Currency,
		Reference:   b.Reference,
	}, nil
}

func (s *Service) settleZeroAmount(ctx context.Context, b *domain.Booking) (*CheckoutParams, error) {
	now := time.Now()
	p := &domain.Payment{
		BookingID: b.ID,
		Reference: uuid.NewString(),
		Amount:    0,
		Currency:  b.Currency,
		Gateway:   gatewayName,
		Status:    domain.PaymentCompleted,
		PaidAt:    &now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.confirmBooking(ctx, b, 0); err != nil {
		return nil, err
	}
	return &CheckoutParams{
		Amount:    0,
		Currency:  b.Currency,
		Reference: b.Reference,
		Settled:   true,
	}, nil
}

// VerifyPaymentSignature checks the client-side checkout signature: an
// HMAC-SHA256 over "orderID|paymentID" keyed with the API secret, hex
// encoded, compared case-insensitively in constant time.
func (s *Service) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := hmacHex(s.keySecret, orderID+"|"+paymentID)
	return hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected))
}

// VerifyWebhookSignature checks the webhook HMAC over the raw body.
func (s *Service) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := hmacHex(s.webhookSecret, string(body))
	return hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected))
}

// HandleCompletion reconciles a successful checkout: a signature mismatch
// fails the payment, never silently passes.
func (s *Service) HandleCompletion(ctx context.Context, orderID, gatewayPaymentID, signature string) error {
	p, err := s.payments.GetByGatewayOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !s.VerifyPaymentSignature(orderID, gatewayPaymentID, signature) {
		if err := s.payments.MarkFailed(ctx, p.ID, "invalid signature"); err != nil {
			s.log.Error("mark failed errored", zap.Int64("payment_id", p.ID), zap.Error(err))
		}
		return ErrInvalidSignature
	}

	return s.settleCapture(ctx, p, gatewayPaymentID)
}

// settleCapture records a captured payment and brings the booking in line with
// it. Gateway retries land here too: a payment already marked completed whose
// booking never got confirmed (a prior confirm failed transiently) is
// reconciled instead of skipped, so the two states cannot stay diverged.
func (s *Service) settleCapture(ctx context.Context, p *domain.Payment, gatewayPaymentID string) error {
	if p.Status != domain.PaymentCompleted {
		if err := s.payments.MarkCompleted(ctx, p.ID, gatewayPaymentID, time.Now()); err != nil {
			return err
		}
	}

	b, err := s.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return err
	}
	if b.PaymentState == domain.BookingPaid && b.Status != domain.BookingPending {
		// fully settled earlier, nothing left to reconcile
		return nil
	}
	return s.confirmBooking(ctx, b, p.Amount)
}

// HandleWebhook verifies and dispatches a gateway event.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.VerifyWebhookSignature(body, signature) {
		return ErrInvalidSignature
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ErrValidation
	}

	entity := ev.Payload.Payment.Entity
	switch ev.Event {
	case "payment.captured":
		p, err := s.payments.GetByGatewayOrderID(ctx, entity.OrderID)
		if err != nil {
			return err
		}
		return s.settleCapture(ctx, p, entity.ID)
	case "payment.failed":
		p, err := s.payments.GetByGatewayOrderID(ctx, entity.OrderID)
		if err != nil {
			return err
		}
		return s.payments.MarkFailed(ctx, p.ID, "gateway reported failure")
	default:
		s.log.Info("ignoring webhook event", zap.String("event", ev.Event))
		return nil
	}
}

// ProcessFullRefund refunds the full captured amount and returns it.
func (s *Service) ProcessFullRefund(ctx context.Context, bookingID int64, reason string) (float64, error) {
	p, err := s.refundablePayment(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return s.refund(ctx, p, p.Amount, reason, true)
}

// ProcessPartialRefund refunds the given amount, never more than what was
// captured.
func (s *Service) ProcessPartialRefund(ctx context.Context, bookingID int64, amount float64, reason string) (float64, error) {
	p, err := s.refundablePayment(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	if amount > p.Amount {
		amount = p.Amount
	}
	return s.refund(ctx, p, amount, reason, false)
}

func (s *Service) refundablePayment(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	p, err := s.payments.GetCompletedByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRefundable
		}
		return nil, err
	}
	if p.Status != domain.PaymentCompleted {
		return nil, ErrNoRefundable
	}
	return p, nil
}

func (s *Service) refund(ctx context.Context, p *domain.Payment, amount float64, reason string, full bool) (float64, error) {
	if amount <= 0 {
		return 0, nil
	}

	var gatewayPaymentID string
	if p.GatewayPaymentID != nil {
		gatewayPaymentID = *p.GatewayPaymentID
	}

	// zero-amount settlements have no gateway payment to refund against
	refundID := "local_" + uuid.NewString()
	if gatewayPaymentID != "" {
		r, err := s.gateway.CreateRefund(ctx, gatewayPaymentID, toMinor(amount), "normal", map[string]string{
			"reason": reason,
		})
		if err != nil {
			s.log.Error("gateway refund failed",
				zap.Int64("payment_id", p.ID),
				zap.Error(err))
			return 0, fmt.Errorf("gateway refund failed: %w", err)
		}
		refundID = r.ID
	}

	if err := s.payments.MarkRefunded(ctx, p.ID, refundID, amount, reason, full); err != nil {
		return 0, err
	}
	return amount, nil
}

func (s *Service) confirmBooking(ctx context.Context, b *domain.Booking, amount float64) error {
	if err := s.writer.UpdatePaymentState(ctx, b.ID, domain.BookingPaid); err != nil {
		return err
	}
	if b.Status == domain.BookingPending {
		if err := s.writer.MarkConfirmed(ctx, b.ID, time.Now()); err != nil {
			return err
		}
	}

	go func() {
		ctx := context.Background()
		if err := s.notifs.PaymentReceived(ctx, b, amount); err != nil {
			s.log.Warn("payment notification failed", zap.String("reference", b.Reference), zap.Error(err))
		}
		if err := s.notifs.BookingConfirmed(ctx, b); err != nil {
			s.log.Warn("confirmation notification failed", zap.String("reference", b.Reference), zap.Error(err))
		}
	}()

	return nil
}

func toMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func hmacHex(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

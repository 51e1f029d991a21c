package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"funbook/internal/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	var p domain.Payment
	tx := r.db.WithContext(ctx).First(&p, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &p, nil
}

func (r *PaymentRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	tx := r.db.WithContext(ctx).Where("gateway_order_id = ?", orderID).First(&p)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &p, nil
}

// GetPendingByBooking returns the reusable pending payment for the booking,
// or gorm.ErrRecordNotFound.
func (r *PaymentRepository) GetPendingByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var p domain.Payment
	tx := r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, domain.PaymentPending).
		Order("created_at DESC").
		First(&p)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &p, nil
}

// GetCompletedByBooking finds the payment that actually charged the customer,
// including ones a refund has since touched.
func (r *PaymentRepository) GetCompletedByBooking(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	var p domain.Payment
	tx := r.db.WithContext(ctx).
		Where("booking_id = ? AND status IN ?", bookingID,
			[]domain.PaymentStatus{domain.PaymentCompleted, domain.PaymentPartiallyRefunded, domain.PaymentRefunded}).
		Order("created_at DESC").
		First(&p)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &p, nil
}

func (r *PaymentRepository) HasCompleted(ctx context.Context, bookingID int64) (bool, error) {
	_, err := r.GetCompletedByBooking(ctx, bookingID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// UpdateOrder refreshes a reused pending payment with a fresh gateway order
// and the current payable amount.
func (r *PaymentRepository) UpdateOrder(ctx context.Context, id int64, gatewayOrderID string, amount float64) error {
	return r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ?", id).
		Updates(map[string]any{"gateway_order_id": gatewayOrderID, "amount": amount}).Error
}

func (r *PaymentRepository) MarkCompleted(ctx context.Context, id int64, gatewayPaymentID string, paidAt time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":             domain.PaymentCompleted,
			"gateway_payment_id": gatewayPaymentID,
			"paid_at":            paidAt,
		}).Error
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": domain.PaymentFailed, "failure_reason": reason}).Error
}

// MarkRefunded persists the gateway refund id exactly once: the guard on
// refund_id keeps a duplicate webhook or retry from overwriting it.
func (r *PaymentRepository) MarkRefunded(ctx context.Context, id int64, refundID string, amount float64, reason string, full bool) error {
	status := domain.PaymentPartiallyRefunded
	if full {
		status = domain.PaymentRefunded
	}
	tx := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ? AND refund_id IS NULL", id).
		Updates(map[string]any{
			"status":          status,
			"refund_id":       refundID,
			"refunded_amount": amount,
			"refund_reason":   reason,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("payment already refunded")
	}
	return nil
}

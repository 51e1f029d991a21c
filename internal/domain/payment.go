package domain

import "time"

type PaymentStatus string

const (
	PaymentPending           PaymentStatus = "pending"
	PaymentCompleted         PaymentStatus = "completed"
	PaymentFailed            PaymentStatus = "failed"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentRefunded          PaymentStatus = "refunded"
)

type Payment struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	BookingID int64  `json:"booking_id" gorm:"index;not null"`
	Reference string `json:"reference" gorm:"uniqueIndex;not null"`

	Amount   float64 `json:"amount" gorm:"not null"`
	Currency string  `json:"currency" gorm:"type:varchar(8);default:'INR'"`

	Gateway          string  `json:"gateway" gorm:"type:varchar(32)"`
	GatewayOrderID   string  `json:"gateway_order_id" gorm:"index"`
	GatewayPaymentID *string `json:"gateway_payment_id,omitempty"`

	Status         PaymentStatus `json:"status" gorm:"type:varchar(24);index;default:'pending'"`
	FailureReason  string        `json:"failure_reason,omitempty" gorm:"type:text"`
	RefundedAmount float64       `json:"refunded_amount"`
	RefundID       *string       `json:"refund_id,omitempty"`
	RefundReason   string        `json:"refund_reason,omitempty" gorm:"type:text"`

	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (p *Payment) IsTerminal() bool {
	switch p.Status {
	case PaymentCompleted, PaymentFailed, PaymentPartiallyRefunded, PaymentRefunded:
		return true
	}
	return false
}

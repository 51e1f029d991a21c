package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCheckedIn BookingStatus = "checked_in"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type BookingPaymentState string

const (
	BookingUnpaid   BookingPaymentState = "unpaid"
	BookingPaid     BookingPaymentState = "paid"
	BookingRefunded BookingPaymentState = "refunded"
)

type Booking struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Reference    string    `json:"reference" gorm:"uniqueIndex;not null"`
	CustomerID   int64     `json:"customer_id" gorm:"index;not null"`
	ActivityID   int64     `json:"activity_id" gorm:"index;not null"`
	Date         time.Time `json:"date" gorm:"index;not null"`
	TimeSlot     string    `json:"time_slot" gorm:"type:varchar(5);not null"`
	Participants int       `json:"participants" gorm:"not null"`

	Status       BookingStatus       `json:"status" gorm:"type:varchar(16);index;default:'pending'"`
	PaymentState BookingPaymentState `json:"payment_state" gorm:"type:varchar(16);default:'unpaid'"`

	UnitPrice        float64  `json:"unit_price"`
	Subtotal         float64  `json:"subtotal"`
	DiscountAmount   float64  `json:"discount_amount"`
	CouponCode       *string  `json:"coupon_code,omitempty"`
	CouponPercentage *float64 `json:"coupon_percentage,omitempty"`
	TaxAmount        float64  `json:"tax_amount"`
	Commission       float64  `json:"commission"`
	ProviderPayout   float64  `json:"provider_payout"`
	TotalAmount      float64  `json:"total_amount"`
	Currency         string   `json:"currency" gorm:"type:varchar(8);default:'INR'"`

	SpecialRequests    string  `json:"special_requests,omitempty" gorm:"type:text"`
	CancellationReason string  `json:"cancellation_reason,omitempty" gorm:"type:text"`
	RefundAmount       float64 `json:"refund_amount"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Activity *Activity `json:"activity,omitempty" gorm:"foreignKey:ActivityID"`
}

type BookingParticipant struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	BookingID int64     `json:"booking_id" gorm:"index;not null"`
	Name      string    `json:"name"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventStart combines the booking date and time slot into the moment the
// activity starts.
func (b *Booking) EventStart() time.Time {
	m, err := MinuteOfDay(b.TimeSlot)
	if err != nil {
		return b.Date
	}
	d := b.Date
	return time.Date(d.Year(), d.Month(), d.Day(), m/60, m%60, 0, 0, d.Location())
}

// CanBeCancelled holds only while the booking is pending or confirmed and the
// event has not started yet.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	if b.Status != BookingPending && b.Status != BookingConfirmed {
		return false
	}
	return b.EventStart().After(now)
}

func (b *Booking) IsPaid() bool {
	return b.PaymentState == BookingPaid
}

// RefundPercent returns the cancellation refund tier for a cancellation at
// `now`: 100% at 48h or more before the event, 50% between 24h and 48h, 0%
// under 24h.
func (b *Booking) RefundPercent(now time.Time) float64 {
	hours := b.EventStart().Sub(now).Hours()
	switch {
	case hours >= 48:
		return 100
	case hours >= 24:
		return 50
	default:
		return 0
	}
}

// PayableAmount is what is still chargeable after post-creation discounts
// (loyalty redemption, gift card) have been folded into TotalAmount.
func (b *Booking) PayableAmount() float64 {
	if b.TotalAmount < 0 {
		return 0
	}
	return b.TotalAmount
}

package domain

import "time"

type GiftCardStatus string

const (
	GiftCardActive    GiftCardStatus = "active"
	GiftCardRedeemed  GiftCardStatus = "redeemed"
	GiftCardExpired   GiftCardStatus = "expired"
	GiftCardCancelled GiftCardStatus = "cancelled"
)

type GiftCard struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"uniqueIndex;not null"` // FB-####-####-####

	OriginalAmount float64 `json:"original_amount" gorm:"not null"`
	Balance        float64 `json:"balance" gorm:"not null"`
	Currency       string  `json:"currency" gorm:"type:varchar(8);default:'INR'"`

	PurchaserID    int64  `json:"purchaser_id" gorm:"index"`
	RecipientEmail string `json:"recipient_email,omitempty"`
	RecipientName  string `json:"recipient_name,omitempty"`
	Message        string `json:"message,omitempty" gorm:"type:text"`

	Status    GiftCardStatus `json:"status" gorm:"type:varchar(16);index;default:'active'"`
	ExpiresAt time.Time      `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *GiftCard) IsExpiredAt(now time.Time) bool {
	return !g.ExpiresAt.IsZero() && now.After(g.ExpiresAt)
}

// GiftCardTransaction is one append-only ledger entry per consumption.
type GiftCardTransaction struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	GiftCardID     int64     `json:"gift_card_id" gorm:"index;not null"`
	BookingID      int64     `json:"booking_id" gorm:"index;not null"`
	Amount         float64   `json:"amount" gorm:"not null"`
	BalanceAfter   float64   `json:"balance_after" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

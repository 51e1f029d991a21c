package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"funbook/internal/domain"
)

var (
	ErrGiftCardDrained  = errors.New("gift card has no remaining balance")
	ErrNothingToConsume = errors.New("booking has no remaining payable amount")
)

type GiftCardRepository struct {
	db *gorm.DB
}

func NewGiftCardRepository(db *gorm.DB) *GiftCardRepository {
	return &GiftCardRepository{db: db}
}

func (r *GiftCardRepository) Create(ctx context.Context, card *domain.GiftCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *GiftCardRepository) GetByCode(ctx context.Context, code string) (*domain.GiftCard, error) {
	var g domain.GiftCard
	tx := r.db.WithContext(ctx).Where("code = ?", code).First(&g)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &g, nil
}

// MarkExpired lazily transitions an overdue card on read.
func (r *GiftCardRepository) MarkExpired(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.GiftCard{}).
		Where("id = ? AND status = ?", id, domain.GiftCardActive).
		Update("status", domain.GiftCardExpired).Error
}

// ApplyResult reports what one consumption did.
type ApplyResult struct {
	Applied    float64
	NewBalance float64
	NewTotal   float64
	Redeemed   bool
}

// Apply consumes min(booking remaining total, card balance) in a single
// transaction holding row locks on both the card and the booking. The live
// balance is re-read under the lock, so repeated partial applications can
// never over-consume the card.
func (r *GiftCardRepository) Apply(ctx context.Context, cardID, bookingID int64, commissionPercent float64) (*ApplyResult, error) {
	var res ApplyResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card domain.GiftCard
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&card, cardID).Error; err != nil {
			return err
		}
		if card.Status != domain.GiftCardActive || card.Balance <= 0 {
			return ErrGiftCardDrained
		}

		var b domain.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, bookingID).Error; err != nil {
			return err
		}
		if b.TotalAmount <= 0 {
			return ErrNothingToConsume
		}

		amount := b.TotalAmount
		if card.Balance < amount {
			amount = card.Balance
		}
		amount = domain.Round2(amount)

		newBalance := domain.Round2(card.Balance - amount)
		status := card.Status
		if newBalance <= 0 {
			newBalance = 0
			status = domain.GiftCardRedeemed
		}
		if err := tx.Model(&domain.GiftCard{}).
			Where("id = ?", card.ID).
			Updates(map[string]any{"balance": newBalance, "status": status}).Error; err != nil {
			return err
		}

		ledger := domain.GiftCardTransaction{
			GiftCardID:   card.ID,
			BookingID:    bookingID,
			Amount:       amount,
			BalanceAfter: newBalance,
		}
		if err := tx.Create(&ledger).Error; err != nil {
			return err
		}

		newTotal := domain.Round2(b.TotalAmount - amount)
		commission, payout := domain.SplitTotal(newTotal, commissionPercent)
		if err := tx.Model(&domain.Booking{}).
			Where("id = ?", b.ID).
			Updates(map[string]any{
				"discount_amount": domain.Round2(b.DiscountAmount + amount),
				"total_amount":    newTotal,
				"commission":      commission,
				"provider_payout": payout,
			}).Error; err != nil {
			return err
		}

		res = ApplyResult{
			Applied:    amount,
			NewBalance: newBalance,
			NewTotal:   newTotal,
			Redeemed:   status == domain.GiftCardRedeemed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GiftCardRepository) Transactions(ctx context.Context, cardID int64) ([]domain.GiftCardTransaction, error) {
	var out []domain.GiftCardTransaction
	tx := r.db.WithContext(ctx).
		Where("gift_card_id = ?", cardID).
		Order("created_at").
		Find(&out)
	return out, tx.Error
}

// ExpireOverdue sweeps active cards past their expiry. Used by the
// maintenance job; reads still expire lazily.
func (r *GiftCardRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.GiftCard{}).
		Where("status = ? AND expires_at < ?", domain.GiftCardActive, now).
		Update("status", domain.GiftCardExpired)
	return tx.RowsAffected, tx.Error
}

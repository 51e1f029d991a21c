package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"funbook/internal/domain"
)

var ErrInsufficientPoints = errors.New("insufficient loyalty points")

type LoyaltyRepository struct {
	db *gorm.DB
}

func NewLoyaltyRepository(db *gorm.DB) *LoyaltyRepository {
	return &LoyaltyRepository{db: db}
}

// GetOrCreateStatus returns the user's status row, creating the bronze
// default on first touch.
func (r *LoyaltyRepository) GetOrCreateStatus(ctx context.Context, userID int64) (*domain.LoyaltyStatus, error) {
	var st domain.LoyaltyStatus
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&st).Error
	if err == nil {
		return &st, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	st = domain.LoyaltyStatus{UserID: userID, Tier: domain.TierBronze}
	if err := r.db.WithContext(ctx).Create(&st).Error; err != nil {
		if IsUniqueViolation(err) {
			var again domain.LoyaltyStatus
			if err2 := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&again).Error; err2 == nil {
				return &again, nil
			}
		}
		return nil, err
	}
	return &st, nil
}

// Award credits points and recomputes the tier inside one locked transaction.
// Points only ever move the tier up; the tier is a pure function of total
// points.
func (r *LoyaltyRepository) Award(ctx context.Context, userID int64, points int64, txType domain.LoyaltyTransactionType, referenceID *int64, description string, expiresAt *time.Time) (*domain.LoyaltyStatus, error) {
	var updated domain.LoyaltyStatus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st domain.LoyaltyStatus
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&st).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			st = domain.LoyaltyStatus{UserID: userID, Tier: domain.TierBronze}
			if err := tx.Create(&st).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		st.TotalPoints += points
		st.AvailablePoints += points
		st.LifetimePoints += points

		newTier := domain.TierForPoints(st.TotalPoints)
		if newTier != st.Tier {
			now := time.Now()
			st.Tier = newTier
			st.TierUpgradedAt = &now
		}

		if err := tx.Save(&st).Error; err != nil {
			return err
		}

		entry := domain.LoyaltyPoint{
			UserID:          userID,
			Points:          points,
			TransactionType: txType,
			ReferenceID:     referenceID,
			Description:     description,
			ExpiresAt:       expiresAt,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		updated = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Debit removes available points for a redemption and writes the negative
// ledger entry tagged to the booking. The available balance is checked under
// the row lock. The tier never changes on redemption.
func (r *LoyaltyRepository) Debit(ctx context.Context, userID int64, points int64, bookingID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st domain.LoyaltyStatus
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&st).Error; err != nil {
			return err
		}

		if st.AvailablePoints < points {
			return ErrInsufficientPoints
		}

		st.AvailablePoints -= points
		if err := tx.Save(&st).Error; err != nil {
			return err
		}

		entry := domain.LoyaltyPoint{
			UserID:          userID,
			Points:          -points,
			TransactionType: domain.LoyaltyRedeem,
			ReferenceID:     &bookingID,
			Description:     "points redeemed against booking",
		}
		return tx.Create(&entry).Error
	})
}

func (r *LoyaltyRepository) History(ctx context.Context, userID int64, limit, offset int) ([]domain.LoyaltyPoint, error) {
	var out []domain.LoyaltyPoint
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out)
	return out, tx.Error
}

// ExpireOverdue debits whatever earned points have passed their expiry and
// records matching expire entries. Run by the maintenance job.
func (r *LoyaltyRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	var expired int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entries []domain.LoyaltyPoint
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("points > 0 AND expires_at IS NOT NULL AND expires_at < ? AND transaction_type <> ?", now, domain.LoyaltyExpire).
			Find(&entries).Error
		if err != nil {
			return err
		}

		for _, e := range entries {
			var st domain.LoyaltyStatus
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", e.UserID).First(&st).Error; err != nil {
				return err
			}

			debit := e.Points
			if st.AvailablePoints < debit {
				debit = st.AvailablePoints
			}
			if debit <= 0 {
				continue
			}

			st.AvailablePoints -= debit
			if err := tx.Save(&st).Error; err != nil {
				return err
			}

			exp := domain.LoyaltyPoint{
				UserID:          e.UserID,
				Points:          -debit,
				TransactionType: domain.LoyaltyExpire,
				ReferenceID:     &e.ID,
				Description:     "points expired",
			}
			if err := tx.Create(&exp).Error; err != nil {
				return err
			}
			// stop the entry from being swept twice
			if err := tx.Model(&domain.LoyaltyPoint{}).
				Where("id = ?", e.ID).
				Update("expires_at", nil).Error; err != nil {
				return err
			}
			expired += debit
		}
		return nil
	})
	return expired, err
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"funbook/internal/domain"
)

// ErrCapacityExceeded is returned when the capacity re-check inside the
// booking-create transaction fails.
var ErrCapacityExceeded = errors.New("schedule capacity exceeded")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BookingDetails is the list projection joined with the activity.
type BookingDetails struct {
	ID            int64                `json:"id"`
	Reference     string               `json:"reference"`
	Status        domain.BookingStatus `json:"status"`
	Date          time.Time            `json:"date"`
	TimeSlot      string               `json:"time_slot"`
	Participants  int                  `json:"participants"`
	TotalAmount   float64              `json:"total_amount"`
	Currency      string               `json:"currency"`
	ActivityID    int64                `json:"activity_id"`
	ActivityTitle string               `json:"activity_title"`
}

// CreateWithCapacityCheck inserts the booking and its participant rows in one
// transaction that re-validates remaining capacity under a schedule row lock,
// so two concurrent requests cannot both claim the last spots.
func (r *BookingRepository) CreateWithCapacityCheck(ctx context.Context, b *domain.Booking, parts []domain.BookingParticipant, scheduleID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sched domain.Schedule
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sched, scheduleID).Error; err != nil {
			return err
		}

		var booked int64
		err := tx.Model(&domain.Booking{}).
			Where("activity_id = ? AND date = ? AND time_slot = ? AND status IN ?",
				b.ActivityID, b.Date, b.TimeSlot,
				[]domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}).
			Select("COALESCE(SUM(participants), 0)").
			Scan(&booked).Error
		if err != nil {
			return err
		}

		if booked+int64(b.Participants) > int64(sched.Capacity) {
			return ErrCapacityExceeded
		}

		if err := tx.Create(b).Error; err != nil {
			return err
		}

		for i := range parts {
			parts[i].BookingID = b.ID
		}
		if len(parts) > 0 {
			if err := tx.Create(&parts).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).First(&b, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).Where("reference = ?", ref).First(&b)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

// SumBookedParticipants counts spots already held for the occurrence. Pending
// and confirmed bookings hold spots; everything else releases them.
func (r *BookingRepository) SumBookedParticipants(ctx context.Context, activityID int64, date time.Time, timeSlot string) (int, error) {
	var booked int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("activity_id = ? AND date = ? AND time_slot = ? AND status IN ?",
			activityID, date, timeSlot,
			[]domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}).
		Select("COALESCE(SUM(participants), 0)").
		Scan(&booked).Error
	return int(booked), err
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]BookingDetails, error) {
	var out []BookingDetails
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("bookings.id, bookings.reference, bookings.status, bookings.date, bookings.time_slot, bookings.participants, bookings.total_amount, bookings.currency, bookings.activity_id, activities.title AS activity_title").
		Joins("JOIN activities ON activities.id = bookings.activity_id").
		Where("bookings.customer_id = ?", customerID).
		Order("bookings.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, err
}

func (r *BookingRepository) MarkConfirmed(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": domain.BookingConfirmed, "confirmed_at": at}).Error
}

func (r *BookingRepository) MarkCheckedIn(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": domain.BookingCheckedIn, "checked_in_at": at}).Error
}

func (r *BookingRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": domain.BookingCompleted, "completed_at": at}).Error
}

func (r *BookingRepository) MarkCancelled(ctx context.Context, id int64, reason string, refund float64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              domain.BookingCancelled,
			"cancellation_reason": reason,
			"refund_amount":       refund,
			"cancelled_at":        at,
		}).Error
}

// StripCoupon removes a coupon from a booking whose redemption could not be
// recorded, restoring the coupon-free money columns.
func (r *BookingRepository) StripCoupon(ctx context.Context, id int64, discount, tax, commission, payout, total float64) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"coupon_code":       nil,
			"coupon_percentage": nil,
			"discount_amount":   discount,
			"tax_amount":        tax,
			"commission":        commission,
			"provider_payout":   payout,
			"total_amount":      total,
		}).Error
}

// SetRefundAmount stamps the amount actually refunded; cancellation records
// it only after the gateway refund went through.
func (r *BookingRepository) SetRefundAmount(ctx context.Context, id int64, amount float64) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("refund_amount", amount).Error
}

func (r *BookingRepository) UpdatePaymentState(ctx context.Context, id int64, state domain.BookingPaymentState) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("payment_state", state).Error
}

// HasCompletedBooking reports whether the customer has any completed booking.
// Used for the one-time first-booking loyalty bonus.
func (r *BookingRepository) HasCompletedBooking(ctx context.Context, customerID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("customer_id = ? AND status = ?", customerID, domain.BookingCompleted).
		Count(&cnt).Error
	return cnt > 0, err
}

// HasCompletedBookingForActivity gates verified reviews.
func (r *BookingRepository) HasCompletedBookingForActivity(ctx context.Context, customerID, activityID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("customer_id = ? AND activity_id = ? AND status = ?", customerID, activityID, domain.BookingCompleted).
		Count(&cnt).Error
	return cnt > 0, err
}

// ApplyDiscount folds a post-creation discount (loyalty redemption or gift
// card) into the booking's money columns under a row lock, capping it at the
// remaining payable amount. Returns the amount actually applied.
func (r *BookingRepository) ApplyDiscount(ctx context.Context, bookingID int64, amount, commissionPercent float64) (float64, error) {
	var applied float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, bookingID).Error; err != nil {
			return err
		}

		applied = amount
		if applied > b.TotalAmount {
			applied = b.TotalAmount
		}
		applied = domain.Round2(applied)

		newTotal := domain.Round2(b.TotalAmount - applied)
		commission, payout := domain.SplitTotal(newTotal, commissionPercent)

		return tx.Model(&domain.Booking{}).
			Where("id = ?", bookingID).
			Updates(map[string]any{
				"discount_amount": domain.Round2(b.DiscountAmount + applied),
				"total_amount":    newTotal,
				"commission":      commission,
				"provider_payout": payout,
			}).Error
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

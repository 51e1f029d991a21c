package domain

import "time"

type Review struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ActivityID int64     `json:"activity_id" gorm:"index;not null;uniqueIndex:idx_review_once"`
	UserID     int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_review_once"`
	BookingID  *int64    `json:"booking_id,omitempty"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment,omitempty" gorm:"type:text"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

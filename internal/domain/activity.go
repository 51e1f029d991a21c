package domain

import (
	"time"
)

type Category struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"uniqueIndex;not null"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

type Provider struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	UserID        int64     `json:"user_id" gorm:"uniqueIndex"`
	BusinessName  string    `json:"business_name"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int64     `json:"total_reviews"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Activity struct {
	ID              int64   `json:"id" gorm:"primaryKey"`
	ProviderID      int64   `json:"provider_id" gorm:"index;not null"`
	CategoryID      int64   `json:"category_id" gorm:"index;not null"`
	Title           string  `json:"title" gorm:"not null"`
	Description     string  `json:"description,omitempty" gorm:"type:text"`
	Price           float64 `json:"price" gorm:"not null"`
	Currency        string  `json:"currency" gorm:"type:varchar(8);default:'INR'"`
	MinParticipants int     `json:"min_participants" gorm:"default:1"`
	MaxParticipants int     `json:"max_participants" gorm:"default:10"`
	DurationMinutes int     `json:"duration_minutes"`
	IsActive        bool    `json:"is_active" gorm:"default:true"`

	// Aggregate counters, maintained by background work.
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
	TotalBookings int64   `json:"total_bookings"`
	ViewCount     int64   `json:"view_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Provider *Provider `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// ActivityDiscount is a provider-level, time-bounded price cut. While one is
// live the activity's effective unit price is the discounted price.
type ActivityDiscount struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ActivityID int64     `json:"activity_id" gorm:"index;not null"`
	Percentage float64   `json:"percentage" gorm:"not null"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
}

func (d *ActivityDiscount) IsLiveAt(now time.Time) bool {
	return d.IsActive && !now.Before(d.StartDate) && !now.After(d.EndDate)
}

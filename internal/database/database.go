package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"funbook/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate keeps the schema aligned with the domain types.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Category{},
		&domain.Provider{},
		&domain.Activity{},
		&domain.ActivityDiscount{},
		&domain.Schedule{},
		&domain.Booking{},
		&domain.BookingParticipant{},
		&domain.Payment{},
		&domain.Coupon{},
		&domain.CouponUsage{},
		&domain.GiftCard{},
		&domain.GiftCardTransaction{},
		&domain.LoyaltyStatus{},
		&domain.LoyaltyPoint{},
		&domain.Review{},
	)
}

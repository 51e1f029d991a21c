package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"funbook/internal/database"
	"funbook/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "funbook.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM loyalty_points")
	db.Exec("DELETE FROM loyalty_statuses")
	db.Exec("DELETE FROM gift_card_transactions")
	db.Exec("DELETE FROM gift_cards")
	db.Exec("DELETE FROM coupon_usages")
	db.Exec("DELETE FROM coupons")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM booking_participants")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM activity_discounts")
	db.Exec("DELETE FROM schedules")
	db.Exec("DELETE FROM activities")
	db.Exec("DELETE FROM providers")
	db.Exec("DELETE FROM categories")

	log.Println("Creating categories...")
	categories := []domain.Category{
		{Name: "Adventure", IsActive: true},
		{Name: "Water Sports", IsActive: true},
		{Name: "Workshops", IsActive: true},
		{Name: "Wellness", IsActive: true},
	}
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Fatal("category seed failed:", err)
		}
	}

	log.Println("Creating providers...")
	providers := []domain.Provider{
		{UserID: 101, BusinessName: "Skyline Adventures"},
		{UserID: 102, BusinessName: "Blue Wave Watersports"},
		{UserID: 103, BusinessName: "Makers Guild"},
	}
	for i := range providers {
		if err := db.Create(&providers[i]).Error; err != nil {
			log.Fatal("provider seed failed:", err)
		}
	}

	log.Println("Creating activities and schedules...")
	activities := []domain.Activity{
		{
			ProviderID:      providers[0].ID,
			CategoryID:      categories[0].ID,
			Title:           "Sunrise Paragliding",
			Description:     "Tandem paragliding over the valley with a certified pilot.",
			Price:           3500,
			MinParticipants: 1,
			MaxParticipants: 4,
			DurationMinutes: 90,
			IsActive:        true,
		},
		{
			ProviderID:      providers[1].ID,
			CategoryID:      categories[1].ID,
			Title:           "Kayaking Expedition",
			Description:     "Guided backwater kayaking, gear included.",
			Price:           1000,
			MinParticipants: 2,
			MaxParticipants: 10,
			DurationMinutes: 180,
			IsActive:        true,
		},
		{
			ProviderID:      providers[2].ID,
			CategoryID:      categories[2].ID,
			Title:           "Pottery Wheel Basics",
			Description:     "Two hours at the wheel, take your piece home.",
			Price:           1200,
			MinParticipants: 1,
			MaxParticipants: 8,
			DurationMinutes: 120,
			IsActive:        true,
		},
	}
	// weekday bits: Sun=1, Mon=2 ... Sat=64
	scheduleSets := [][]domain.Schedule{
		{
			{Weekdays: 0b1111111, StartTime: "06:00", EndTime: "10:00", Capacity: 4, IsActive: true},
		},
		{
			{Weekdays: 0b0111110, StartTime: "07:00", EndTime: "11:00", Capacity: 12, IsActive: true},
			{Weekdays: 0b1000001, StartTime: "07:00", EndTime: "17:00", Capacity: 20, IsActive: true},
		},
		{
			{Weekdays: 0b1000001, StartTime: "10:00", EndTime: "18:00", Capacity: 8, IsActive: true},
		},
	}
	for i := range activities {
		if err := db.Create(&activities[i]).Error; err != nil {
			log.Fatal("activity seed failed:", err)
		}
		for _, s := range scheduleSets[i] {
			s.ActivityID = activities[i].ID
			if err := db.Create(&s).Error; err != nil {
				log.Fatal("schedule seed failed:", err)
			}
		}
	}

	log.Println("Creating promotional discount...")
	promo := domain.ActivityDiscount{
		ActivityID: activities[1].ID,
		Percentage: 20,
		StartDate:  time.Now().AddDate(0, 0, -1),
		EndDate:    time.Now().AddDate(0, 1, 0),
		IsActive:   true,
	}
	if err := db.Create(&promo).Error; err != nil {
		log.Fatal("discount seed failed:", err)
	}

	log.Println("Creating coupons...")
	now := time.Now()
	coupons := []domain.Coupon{
		{
			Code:              "SAVE10",
			Description:       "10% off, capped at 150",
			DiscountType:      domain.DiscountPercentage,
			DiscountValue:     10,
			MaxDiscountAmount: 150,
			ValidFrom:         now.AddDate(0, 0, -7),
			ValidUntil:        now.AddDate(0, 3, 0),
			IsActive:          true,
		},
		{
			Code:           "FLAT200",
			Description:    "Flat 200 off orders above 1500",
			DiscountType:   domain.DiscountFixed,
			DiscountValue:  200,
			MinOrderAmount: 1500,
			ValidFrom:      now.AddDate(0, 0, -7),
			ValidUntil:     now.AddDate(0, 1, 0),
			UsageLimit:     100,
			IsActive:       true,
		},
		{
			Code:          "FIRSTTRIP",
			Description:   "Single-use 15% welcome coupon",
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: 15,
			ValidFrom:     now.AddDate(0, 0, -7),
			ValidUntil:    now.AddDate(0, 6, 0),
			UsageLimit:    1,
			IsActive:      true,
		},
	}
	for i := range coupons {
		if err := db.Create(&coupons[i]).Error; err != nil {
			log.Fatal("coupon seed failed:", err)
		}
	}

	log.Println("Creating gift card...")
	card := domain.GiftCard{
		Code:           "FB-1111-2222-3333",
		OriginalAmount: 500,
		Balance:        500,
		PurchaserID:    201,
		RecipientEmail: "friend@example.com",
		RecipientName:  "Demo Friend",
		Status:         domain.GiftCardActive,
		ExpiresAt:      now.AddDate(1, 0, 0),
	}
	if err := db.Create(&card).Error; err != nil {
		log.Fatal("gift card seed failed:", err)
	}

	fmt.Println("Seed complete:")
	fmt.Printf("  %d categories, %d providers, %d activities\n", len(categories), len(providers), len(activities))
	fmt.Printf("  coupons: SAVE10, FLAT200, FIRSTTRIP; gift card: %s\n", card.Code)
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"funbook/internal/database"
	"funbook/internal/repository"
)

// Maintenance job: expires overdue gift cards and loyalty points. Meant to
// run from cron once a day.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()

	cards, err := repository.NewGiftCardRepository(db).ExpireOverdue(ctx, now)
	if err != nil {
		log.Fatal("gift card expiry failed:", err)
	}

	points, err := repository.NewLoyaltyRepository(db).ExpireOverdue(ctx, now)
	if err != nil {
		log.Fatal("loyalty expiry failed:", err)
	}

	log.Printf("expired %d gift cards, %d loyalty point entries", cards, points)
}

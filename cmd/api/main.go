package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"funbook/internal/config"
	"funbook/internal/database"
	"funbook/internal/middleware"
	"funbook/internal/modules/availability"
	"funbook/internal/modules/booking"
	"funbook/internal/modules/catalog"
	"funbook/internal/modules/coupon"
	"funbook/internal/modules/giftcard"
	"funbook/internal/modules/loyalty"
	"funbook/internal/modules/payment"
	"funbook/internal/modules/pricing"
	"funbook/internal/modules/review"
	"funbook/internal/notification"
	jwtsvc "funbook/internal/pkg/jwt"
	"funbook/internal/pkg/logger"
	"funbook/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(os.Getenv("GIN_MODE") != "release")
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zl.Fatal("invalid redis url", zap.Error(err))
		}
		rdb = redis.NewClient(opts)
	}

	activityRepo := repository.NewActivityRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	giftCardRepo := repository.NewGiftCardRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)
	notifs := notification.NewLogSender(zl)
	calc := pricing.NewCalculator(cfg.TaxRatePercent, cfg.CommissionPercent)

	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret)

	availabilityService := availability.NewService(scheduleRepo, bookingRepo)
	catalogService := catalog.NewService(activityRepo, scheduleRepo, calc, rdb, zl)
	couponService := coupon.NewService(couponRepo, activityRepo, zl)
	loyaltyService := loyalty.NewService(loyaltyRepo, bookingRepo, cfg.CommissionPercent, zl)
	giftCardService := giftcard.NewService(giftCardRepo, bookingRepo, notifs, cfg.CommissionPercent, zl)
	paymentService := payment.NewService(
		paymentRepo, bookingRepo, bookingRepo, gateway, notifs, zl,
		cfg.GatewayKeyID, cfg.GatewayKeySecret, cfg.GatewayWebhookSecret,
	)
	bookingService := booking.NewService(
		bookingRepo, activityRepo, availabilityService, calc,
		couponService, paymentService, loyaltyService, notifs, zl,
	)
	reviewService := review.NewService(reviewRepo, activityRepo, bookingRepo, loyaltyService, zl)

	catalogHandler := catalog.NewHandler(catalogService)
	couponHandler := coupon.NewHandler(couponService)
	loyaltyHandler := loyalty.NewHandler(loyaltyService)
	giftCardHandler := giftcard.NewHandler(giftCardService)
	paymentHandler := payment.NewHandler(paymentService)
	bookingHandler := booking.NewHandler(bookingService, availabilityService)
	reviewHandler := review.NewHandler(reviewService)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go catalogService.RunViewFlusher(ctx, time.Minute)

	r := gin.Default()

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterWebhookRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			couponHandler.RegisterRoutes(protected)
			loyaltyHandler.RegisterRoutes(protected)
			giftCardHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			reviewHandler.RegisterRoutes(protected)
		}

		operational := v1.Group("/")
		operational.Use(middleware.Auth(j), middleware.RequireRole("provider", "admin"))
		{
			bookingHandler.RegisterOperationalRoutes(operational)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(j), middleware.RequireRole("admin"))
		{
			couponHandler.RegisterAdminRoutes(admin)
		}
	}

	zl.Info("starting api", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

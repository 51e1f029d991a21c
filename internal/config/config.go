package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// HTTP
	Port string `envconfig:"PORT" default:"8080"`
	// DB
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	// Redis (optional, view counters degrade to no-op without it)
	RedisURL string `envconfig:"REDIS_URL"`
	// JWT
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	// Pricing
	TaxRatePercent    float64 `envconfig:"TAX_RATE_PERCENT" default:"0"`
	CommissionPercent float64 `envconfig:"COMMISSION_PERCENT" default:"10"`
	// Payment gateway
	GatewayBaseURL       string `envconfig:"GATEWAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	GatewayKeyID         string `envconfig:"GATEWAY_KEY_ID"`
	GatewayKeySecret     string `envconfig:"GATEWAY_KEY_SECRET"`
	GatewayWebhookSecret string `envconfig:"GATEWAY_WEBHOOK_SECRET"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	RedisURL         string
	PaymentAPIURL    string // base URL of the remote payment-order API
	OrderAPIURL      string // base URL of the remote order API
	KafkaBrokers     string
	KafkaTopic       string
	GatewayKey       string // public key id embedded in the gateway options
	MerchantName     string
	OrderDescription string
	ThemeColor       string
	Currency         string
	DeliveryCharge   int64 // fixed fee added to every order, in currency units
	ClientTimeout    time.Duration
	ReconcileEvery   time.Duration
	SessionTTL       time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8088"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		PaymentAPIURL:    os.Getenv("PAYMENT_API_URL"),
		OrderAPIURL:      os.Getenv("ORDER_API_URL"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "checkout.completed"),
		GatewayKey:       os.Getenv("GATEWAY_KEY_ID"),
		MerchantName:     getEnv("MERCHANT_NAME", "Dreamscape Creation"),
		OrderDescription: getEnv("ORDER_DESCRIPTION", "Order Payment"),
		ThemeColor:       getEnv("THEME_COLOR", "#212135"),
		Currency:         getEnv("CURRENCY", "INR"),
		DeliveryCharge:   getEnvInt64("DELIVERY_CHARGE", 50),
		ClientTimeout:    getEnvDuration("CLIENT_TIMEOUT", 10*time.Second),
		ReconcileEvery:   getEnvDuration("RECONCILE_INTERVAL", 30*time.Second),
		SessionTTL:       getEnvDuration("SESSION_TTL", 24*time.Hour),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" ||
		cfg.PaymentAPIURL == "" || cfg.OrderAPIURL == "" || cfg.GatewayKey == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

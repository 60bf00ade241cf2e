package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is the whole application configuration, loaded from env vars.
type Config struct {
	Port string

	DatabaseURL      string // takes precedence over the POSTGRES_* fields
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string
	GoEnv     string

	RedisAddr string // empty disables the order-status cache

	PaymentGatewayURL   string
	PaymentGatewayToken string
	WebhookSecret       string

	HoldTTLMinutes            int // default 10
	HoldReaperIntervalSeconds int // 0 disables the reaper
}

func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		GoEnv:     os.Getenv("GO_ENV"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		PaymentGatewayURL:   os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentGatewayToken: os.Getenv("PAYMENT_GATEWAY_TOKEN"),
		WebhookSecret:       os.Getenv("WEBHOOK_SECRET"),
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.PaymentGatewayURL == "" {
		return Config{}, fmt.Errorf("PAYMENT_GATEWAY_URL is required")
	}
	if cfg.PaymentGatewayToken == "" {
		return Config{}, fmt.Errorf("PAYMENT_GATEWAY_TOKEN is required")
	}
	if cfg.WebhookSecret == "" {
		return Config{}, fmt.Errorf("WEBHOOK_SECRET is required")
	}

	if cfg.DatabaseURL == "" {
		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
		pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
		if err != nil {
			return Config{}, err
		}
		cfg.PostgresPort = pgPort
	}

	ttl, err := atoiDefault("HOLD_TTL_MINUTES", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.HoldTTLMinutes = ttl

	reaper, err := atoiDefault("HOLD_REAPER_INTERVAL_SECONDS", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.HoldReaperIntervalSeconds = reaper

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port         string
	DBConn       string
	LogLevel     string
	JWTSecret    string
	TokenTTL     time.Duration
	RatesURL     string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	ttlSeconds, err := strconv.Atoi(getEnv("TOKEN_TTL_SECONDS", "3600"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_SECONDS: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBConn:       getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=fintrack sslmode=disable"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		TokenTTL:     time.Duration(ttlSeconds) * time.Second,
		RatesURL:     getEnv("RATES_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@fintrack.local"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

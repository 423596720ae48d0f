package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv           string
	AppName          string
	AppPort          string
	TelegramToken    string
	MaxArchiveBytes  int64
	CORSAllowOrigins []string
}

func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		AppEnv:          getEnv("APP_ENV", "local"),
		AppName:         getEnv("APP_NAME", "SleepFeed Bot"),
		AppPort:         getEnv("APP_PORT", "8000"),
		TelegramToken:   getEnv("TELEGRAM_TOKEN", ""),
		MaxArchiveBytes: int64(getEnvInt("MAX_ARCHIVE_BYTES", 20*1024*1024)),
		CORSAllowOrigins: getEnvCSV(
			"CORS_ALLOW_ORIGINS",
			[]string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"},
		),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.AppPort) == "" {
		return errors.New("APP_PORT is required")
	}
	if c.MaxArchiveBytes <= 0 {
		return errors.New("MAX_ARCHIVE_BYTES must be positive")
	}
	return nil
}

// ValidateBot covers the extra settings the Telegram entrypoint needs.
func (c Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.TelegramToken) == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvCSV(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, item := range parts {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

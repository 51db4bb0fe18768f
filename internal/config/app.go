package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	HTTPAddr string

	JWTSecret   string
	TokenExpiry time.Duration

	// Часовой пояс презентации: по его календарным дням считаются
	// окна конфликтов записи.
	TimeZone *time.Location

	// Учётные данные начального администратора (создаётся сидом,
	// если пользователей ещё нет).
	BootstrapAdminUser     string
	BootstrapAdminPassword string
}

func LoadAppConfig() (*AppConfig, error) {
	// .env опционален; в контейнере конфиг приходит из окружения.
	_ = godotenv.Load()

	cfg := &AppConfig{
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:              getEnv("JWT_SECRET", "change-me-in-production"),
		BootstrapAdminUser:     getEnv("BOOTSTRAP_ADMIN_USER", "admin"),
		BootstrapAdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin"),
	}

	exp := getEnv("JWT_EXPIRY", "24h")
	d, err := time.ParseDuration(exp)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY %q: %w", exp, err)
	}
	cfg.TokenExpiry = d

	tz := getEnv("APP_TIMEZONE", "America/Mexico_City")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}
	cfg.TimeZone = loc

	return cfg, nil
}

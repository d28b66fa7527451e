package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Sweep    SweepConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT verification configuration. Token issuance lives in the
// identity service; this backend only verifies access tokens.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
}

// SweepConfig holds the recovery job schedule. Hours are in the org-local
// timezone; TimeBudget bounds a single sweep run.
type SweepConfig struct {
	AbsenceRunHour int
	StuckRunHour   int
	TimeBudget     time.Duration
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments; env vars win anyway.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timekeeper"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("ORG_TIMEZONE", "Asia/Jakarta"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Sweep configuration
	absenceHour, err := strconv.Atoi(getEnv("SWEEP_ABSENCE_RUN_HOUR", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_ABSENCE_RUN_HOUR: %w", err)
	}
	stuckHour, err := strconv.Atoi(getEnv("SWEEP_STUCK_RUN_HOUR", "23"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_STUCK_RUN_HOUR: %w", err)
	}
	budget, err := time.ParseDuration(getEnv("SWEEP_TIME_BUDGET", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_TIME_BUDGET: %w", err)
	}
	config.Sweep = SweepConfig{
		AbsenceRunHour: absenceHour,
		StuckRunHour:   stuckHour,
		TimeBudget:     budget,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Sweep.AbsenceRunHour < 0 || c.Sweep.AbsenceRunHour > 23 {
		return fmt.Errorf("SWEEP_ABSENCE_RUN_HOUR must be in 0..23")
	}
	if c.Sweep.StuckRunHour < 0 || c.Sweep.StuckRunHour > 23 {
		return fmt.Errorf("SWEEP_STUCK_RUN_HOUR must be in 0..23")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid ORG_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return nil
}

// Location returns the org-local timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/presensia/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds the accounting policy knobs. Defaults follow the
// company handbook: 08:00 cutoff, a quarter day per started half hour of
// lateness, low-balance warnings below 3 days, 15 opening days.
type AttendanceConfig struct {
	CutoffHour          int
	CutoffMinute        int
	RatePerHalfHour     decimal.Decimal
	LowBalanceThreshold decimal.Decimal
	OpeningBalanceDays  decimal.Decimal
}

func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
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
		Name:     getEnv("DB_NAME", "attendance"),
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
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy configuration
	cutoff, ok := validator.IsValidTimeOfDay(getEnv("CUTOFF_TIME", "08:00"))
	if !ok {
		return nil, fmt.Errorf("invalid CUTOFF_TIME: expected HH:MM")
	}

	rate, err := decimal.NewFromString(getEnv("LATE_DEDUCTION_RATE", "0.25"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_DEDUCTION_RATE: %w", err)
	}

	lowThreshold, err := decimal.NewFromString(getEnv("LOW_BALANCE_THRESHOLD", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOW_BALANCE_THRESHOLD: %w", err)
	}

	openingBalance, err := decimal.NewFromString(getEnv("OPENING_LEAVE_BALANCE", "15.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid OPENING_LEAVE_BALANCE: %w", err)
	}

	config.Attendance = AttendanceConfig{
		CutoffHour:          cutoff.Hour(),
		CutoffMinute:        cutoff.Minute(),
		RatePerHalfHour:     rate,
		LowBalanceThreshold: lowThreshold,
		OpeningBalanceDays:  openingBalance,
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
	if c.Attendance.RatePerHalfHour.IsNegative() {
		return fmt.Errorf("LATE_DEDUCTION_RATE must not be negative")
	}
	if c.Attendance.OpeningBalanceDays.IsNegative() {
		return fmt.Errorf("OPENING_LEAVE_BALANCE must not be negative")
	}
	return nil
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

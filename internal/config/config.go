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
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Shift    ShiftConfig
	Leave    LeaveConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT verification configuration. Tokens are issued by the
// identity service; this backend only verifies them with the shared secret.
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// ShiftConfig holds the shift policy: when a working day starts, how much
// lateness is tolerated, and when open sessions are force-closed.
type ShiftConfig struct {
	Timezone           string
	StartTime          string // "15:04"
	GraceMinutes       int
	DayEndCutoff       string // "15:04:05", end of the working day
	SweepInterval      time.Duration
	AutoCloseCopyDraft bool
}

// LeaveConfig holds per-type yearly allotments and the negative-balance policy.
type LeaveConfig struct {
	CasualDays    int
	SickDays      int
	PaidDays      int
	UnpaidDays    int
	AllowNegative bool
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

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
		Name:     getEnv("DB_NAME", "workdesk-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Shift policy configuration
	graceMinutes, err := strconv.Atoi(getEnv("SHIFT_GRACE_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIFT_GRACE_MINUTES: %w", err)
	}

	sweepInterval, err := time.ParseDuration(getEnv("SHIFT_SWEEP_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHIFT_SWEEP_INTERVAL: %w", err)
	}

	config.Shift = ShiftConfig{
		Timezone:           getEnv("SHIFT_TIMEZONE", "UTC"),
		StartTime:          getEnv("SHIFT_START_TIME", "09:00"),
		GraceMinutes:       graceMinutes,
		DayEndCutoff:       getEnv("SHIFT_DAY_END_CUTOFF", "23:59:59"),
		SweepInterval:      sweepInterval,
		AutoCloseCopyDraft: getEnvBool("SHIFT_AUTO_CLOSE_COPY_DRAFT", true),
	}

	// Leave policy configuration
	casualDays, err := strconv.Atoi(getEnv("LEAVE_CASUAL_DAYS", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_CASUAL_DAYS: %w", err)
	}
	sickDays, err := strconv.Atoi(getEnv("LEAVE_SICK_DAYS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_SICK_DAYS: %w", err)
	}
	paidDays, err := strconv.Atoi(getEnv("LEAVE_PAID_DAYS", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_PAID_DAYS: %w", err)
	}
	unpaidDays, err := strconv.Atoi(getEnv("LEAVE_UNPAID_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_UNPAID_DAYS: %w", err)
	}

	config.Leave = LeaveConfig{
		CasualDays:    casualDays,
		SickDays:      sickDays,
		PaidDays:      paidDays,
		UnpaidDays:    unpaidDays,
		AllowNegative: getEnvBool("LEAVE_ALLOW_NEGATIVE", true),
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
	if _, err := time.LoadLocation(c.Shift.Timezone); err != nil {
		return fmt.Errorf("invalid SHIFT_TIMEZONE: %w", err)
	}
	if _, err := time.Parse("15:04", c.Shift.StartTime); err != nil {
		return fmt.Errorf("invalid SHIFT_START_TIME: %w", err)
	}
	if _, err := time.Parse("15:04:05", c.Shift.DayEndCutoff); err != nil {
		return fmt.Errorf("invalid SHIFT_DAY_END_CUTOFF: %w", err)
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

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Development bool

	// Telegram configuration
	TelegramBotToken string
	// PrimaryAdminID is the admin that can never be removed
	PrimaryAdminID int64
	// ChannelID is the restricted channel access is sold for
	ChannelID  int64
	InviteLink string

	// Subscription configuration
	SubscriptionDays     int
	SweepIntervalMinutes int

	// Database configuration
	DatabaseDriver   string
	DatabasePath     string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string

	// API configuration, 0 disables the status API
	APIPort int

	// Redis configuration, empty address keeps dialogue state in memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// SweepInterval is the period of the expiry sweeper.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:          getEnvAsBool("DEVELOPMENT", false),
		TelegramBotToken:     getEnv("TELEGRAM_BOT_TOKEN", ""),
		PrimaryAdminID:       getEnvAsInt64("PRIMARY_ADMIN_ID", 0),
		ChannelID:            getEnvAsInt64("CHANNEL_ID", 0),
		InviteLink:           getEnv("INVITE_LINK", ""),
		SubscriptionDays:     getEnvAsInt("SUBSCRIPTION_DAYS", 30),
		SweepIntervalMinutes: getEnvAsInt("SWEEP_INTERVAL_MINUTES", 60),
		DatabaseDriver:       getEnv("DATABASE_DRIVER", DriverSQLite),
		DatabasePath:         getEnv("DATABASE_PATH", "./bot.db"),
		PostgresUser:         getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:     getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:         getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:         getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:           getEnv("POSTGRES_DB", "ostiarius"),
		APIPort:              getEnvAsInt("API_PORT", 0),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.PrimaryAdminID == 0 {
		return fmt.Errorf("PRIMARY_ADMIN_ID is required")
	}
	if c.ChannelID == 0 {
		return fmt.Errorf("CHANNEL_ID is required")
	}
	if c.InviteLink == "" {
		return fmt.Errorf("INVITE_LINK is required")
	}
	if c.SubscriptionDays <= 0 {
		return fmt.Errorf("SUBSCRIPTION_DAYS must be positive, got %d", c.SubscriptionDays)
	}
	if c.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL_MINUTES must be positive, got %d", c.SweepIntervalMinutes)
	}
	if c.APIPort < 0 || c.APIPort > 65535 {
		return fmt.Errorf("invalid API_PORT %d", c.APIPort)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required")
		}
	case DriverPostgres:
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required")
		}
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsInt64(name string, defaultValue int64) int64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

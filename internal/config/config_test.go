package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("PRIMARY_ADMIN_ID", "1001")
	t.Setenv("CHANNEL_ID", "-1001234567890")
	t.Setenv("INVITE_LINK", "https://t.me/+invite")
}

func TestLoadConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("SUBSCRIPTION_DAYS", "14")
	t.Setenv("SWEEP_INTERVAL_MINUTES", "5")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("API_PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "123:abc", cfg.TelegramBotToken)
	assert.EqualValues(t, 1001, cfg.PrimaryAdminID)
	assert.EqualValues(t, -1001234567890, cfg.ChannelID)
	assert.Equal(t, 14, cfg.SubscriptionDays)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval())
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, 8080, cfg.APIPort)
}

func TestLoadConfigIgnoresMalformedNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("SUBSCRIPTION_DAYS", "thirty")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.SubscriptionDays)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TelegramBotToken:     "123:abc",
			PrimaryAdminID:       1,
			ChannelID:            -100,
			InviteLink:           "https://t.me/+invite",
			SubscriptionDays:     30,
			SweepIntervalMinutes: 60,
			DatabaseDriver:       DriverSQLite,
			DatabasePath:         "./bot.db",
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"token":         func(c *Config) { c.TelegramBotToken = "" },
		"primary admin": func(c *Config) { c.PrimaryAdminID = 0 },
		"channel":       func(c *Config) { c.ChannelID = 0 },
		"invite":        func(c *Config) { c.InviteLink = "" },
		"days":          func(c *Config) { c.SubscriptionDays = 0 },
		"interval":      func(c *Config) { c.SweepIntervalMinutes = -1 },
		"port":          func(c *Config) { c.APIPort = 70000 },
		"driver":        func(c *Config) { c.DatabaseDriver = "mysql" },
		"sqlite path":   func(c *Config) { c.DatabasePath = "" },
		"postgres host": func(c *Config) { c.DatabaseDriver = DriverPostgres; c.PostgresDB = "x"; c.PostgresHost = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

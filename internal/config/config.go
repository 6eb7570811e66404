package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const devAdminPassword = "pushbike"

type Config struct {
	App      string
	HTTPAddr string

	APIBaseURL string
	APITimeout time.Duration

	AdminUsername     string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration
	ExportSecret      string

	// 0 seeds the wheel from the clock.
	WheelSeed int64

	LogLevel  string
	LogFormat string

	TelegramToken  string
	TelegramChatID int64

	GoogleServiceAccountJSON string
	SpreadsheetID            string
}

func (c Config) IsProd() bool {
	return c.App == "prod"
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

func (c Config) SheetsEnabled() bool {
	return c.GoogleServiceAccountJSON != "" && c.SpreadsheetID != ""
}

// DevPassword is the organizer password accepted when no hash is configured
// outside prod.
func DevPassword() string {
	return devAdminPassword
}

func FromEnv() (Config, error) {
	var c Config
	c.App = strings.ToLower(env("APP"))
	if c.App == "" {
		c.App = "dev"
	}

	c.HTTPAddr = env("HTTP_ADDR")
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}

	c.APIBaseURL = strings.TrimRight(env("API_BASE_URL"), "/")
	timeout, err := duration("API_TIMEOUT", 15*time.Second)
	if err != nil {
		return c, err
	}
	c.APITimeout = timeout

	c.AdminUsername = env("ADMIN_USERNAME")
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	c.AdminPasswordHash = env("ADMIN_PASSWORD_HASH")
	c.SessionSecret = env("SESSION_SECRET")
	ttl, err := duration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return c, err
	}
	c.SessionTTL = ttl
	c.ExportSecret = env("EXPORT_SECRET")

	if raw := env("WHEEL_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c, fmt.Errorf("WHEEL_SEED: %w", err)
		}
		c.WheelSeed = seed
	}

	c.LogLevel = strings.ToLower(env("LOG_LEVEL"))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogFormat = strings.ToLower(env("LOG_FORMAT"))
	if c.LogFormat == "" {
		c.LogFormat = "text"
		if c.IsProd() {
			c.LogFormat = "json"
		}
	}

	c.TelegramToken = env("TELEGRAM_BOT_TOKEN")
	if raw := env("TELEGRAM_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}

	c.GoogleServiceAccountJSON = env("GOOGLE_SERVICE_ACCOUNT_JSON")
	c.SpreadsheetID = env("GOOGLE_SHEETS_SPREADSHEET_ID")

	if c.IsProd() {
		if c.SessionSecret == "" {
			return c, fmt.Errorf("SESSION_SECRET is empty")
		}
		if c.AdminPasswordHash == "" {
			return c, fmt.Errorf("ADMIN_PASSWORD_HASH is empty")
		}
	}
	if c.SessionSecret == "" {
		c.SessionSecret = "dev-session-secret"
	}
	if c.ExportSecret == "" {
		c.ExportSecret = c.SessionSecret
	}

	return c, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

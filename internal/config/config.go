package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Security
	SecretKey string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Local time zone used for created_at and the form's default date
	Timezone string

	// Telegram (both optional: notifications are only logged when unset)
	TelegramToken  string
	TelegramChatID string
	TelegramAPIURL string

	// Notifications
	NotifyQueueSize  int
	MaxUploadSize    int64
	DigestCron       string
	FailurePruneCron string
	FailureRetention time.Duration

	// Observability (optional)
	SentryDSN string

	// Attachment archive (optional, S3-compatible)
	S3Region               string
	S3Bucket               string
	S3AccessKey            string
	S3SecretKey            string
	S3Endpoint             string
	S3PresignExpiryPrivate time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Activity Report"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "5000"),

		// Security
		SecretKey: envString("SECRET_KEY", "dev_secret"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/activities.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		Timezone: envString("TIMEZONE", "Asia/Beirut"),

		// Telegram
		TelegramToken:  envString("TELEGRAM_TOKEN", ""),
		TelegramChatID: envString("CHAT_ID", ""),
		TelegramAPIURL: envString("TELEGRAM_API_URL", "https://api.telegram.org"),

		// Notifications
		NotifyQueueSize:  envInt("NOTIFY_QUEUE_SIZE", 64),
		MaxUploadSize:    envInt64("MAX_UPLOAD_SIZE", 32<<20), // 32MB
		DigestCron:       envString("DIGEST_CRON", "0 20 * * *"),
		FailurePruneCron: envString("FAILURE_PRUNE_CRON", "0 3 * * *"),
		FailureRetention: envDuration("FAILURE_RETENTION", 720*time.Hour), // 30 days

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Attachment archive
		S3Region:               envString("S3_REGION", "us-east-1"),
		S3Bucket:               envString("S3_BUCKET", ""),
		S3AccessKey:            envString("S3_ACCESS_KEY", ""),
		S3SecretKey:            envString("S3_SECRET_KEY", ""),
		S3Endpoint:             envString("S3_ENDPOINT", ""),
		S3PresignExpiryPrivate: envDuration("S3_PRESIGN_EXPIRY_PRIVATE", 1*time.Hour),
	}

	if cfg.IsProduction() {
		warnInsecureDefaults(cfg)
	}

	return cfg
}

// warnInsecureDefaults flags settings that still carry their development
// fallback in a production deployment. Nothing here is fatal.
func warnInsecureDefaults(cfg *Config) {
	if cfg.SecretKey == "dev_secret" {
		slog.Warn("SECRET_KEY is unset, flash cookies are signed with the development key")
	}
	if !cfg.TelegramEnabled() {
		slog.Warn("TELEGRAM_TOKEN or CHAT_ID is unset, notifications will only be logged")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int64, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// TelegramEnabled reports whether both the bot token and the target chat are set.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

// ArchiveEnabled reports whether uploaded attachments should be archived to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

// Location resolves Timezone, falling back to UTC when the name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("config invalid timezone, using UTC", "timezone", c.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:  c.AppName,
		AppEnv:   c.AppEnv,
		Port:     c.Port,
		Timezone: c.Timezone,

		S3Endpoint: c.S3Endpoint, // Needed for CSP policies
	}
}

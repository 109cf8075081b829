package config

import (
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the application configuration shared by the server and the console
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Store service
	ListenAddr    string   `env:"LISTEN_ADDR" envDefault:":8080"`
	StorageDriver string   `env:"STORAGE_DRIVER" envDefault:"json"`
	DataDir       string   `env:"DATA_DIR" envDefault:"data"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	AdminAPIToken string   `env:"ADMIN_API_TOKEN"`
	CORSOrigins   []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	// Notifications
	SendGridAPIKey       string `env:"SENDGRID_API_KEY"`
	SendGridFromEmail    string `env:"SENDGRID_FROM_EMAIL" envDefault:"hochzeit@example.com"`
	SendGridFromName     string `env:"SENDGRID_FROM_NAME" envDefault:"Tomke & Jan-Paul"`
	WhatsAppEnabled      bool   `env:"WHATSAPP_ENABLED" envDefault:"false"`
	WhatsAppDataDir      string `env:"WHATSAPP_DATA_DIR" envDefault:"data"`
	WhatsAppNotifyNumber string `env:"WHATSAPP_NOTIFY_NUMBER"`
	CoupleNames          string `env:"COUPLE_NAMES" envDefault:"Tomke & Jan-Paul"`
	WeddingDate          string `env:"WEDDING_DATE" envDefault:"2026"`

	// Console
	APIURL               string        `env:"API_URL" envDefault:"http://localhost:8080"`
	GuestPassword        string        `env:"GUEST_PASSWORD" envDefault:"t&j"`
	AdminPassword        string        `env:"ADMIN_PASSWORD" envDefault:"admin2025"`
	SessionFile          string        `env:"SESSION_FILE" envDefault:"data/session.json"`
	RedisURL             string        `env:"REDIS_URL"`
	ExportDir            string        `env:"EXPORT_DIR" envDefault:"."`
	GuestSessionDuration time.Duration `env:"GUEST_SESSION_DURATION" envDefault:"30m"`
	AdminSessionDuration time.Duration `env:"ADMIN_SESSION_DURATION" envDefault:"60m"`
	GuestSessionPoll     time.Duration `env:"GUEST_SESSION_POLL" envDefault:"10s"`
	AdminSessionPoll     time.Duration `env:"ADMIN_SESSION_POLL" envDefault:"30s"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// LoadConfig loads configuration from a .env file (if present), environment
// variables, and defaults
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations the env tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "json", "sqlite3":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage driver %q", c.StorageDriver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.WhatsAppEnabled && c.WhatsAppNotifyNumber == "" {
		return fmt.Errorf("WHATSAPP_NOTIFY_NUMBER is required when WhatsApp is enabled")
	}
	return nil
}

// Logger creates the root logger writing to w at the configured level
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

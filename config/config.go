package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the storefront's runtime configuration.
type Config struct {
	Port               string        `mapstructure:"PORT"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	SessionSecret      string        `mapstructure:"SESSION_SECRET"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	AppEnv             string        `mapstructure:"APP_ENV"`
	FrontendURL        string        `mapstructure:"FRONTEND_URL"`
	DeliveryFee        float64       `mapstructure:"DELIVERY_FEE"`
	BundlePrice        float64       `mapstructure:"BUNDLE_PRICE"`
	MaxRecommendations int           `mapstructure:"MAX_RECOMMENDATIONS"`
	RelatedItems       int           `mapstructure:"RELATED_ITEMS"`
	KafkaBrokers       string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTicketTopic   string        `mapstructure:"KAFKA_TICKET_TOPIC"`
	CheckoutRateLimit  int           `mapstructure:"CHECKOUT_RATE_LIMIT"`
	SessionIdleTTL     time.Duration `mapstructure:"SESSION_IDLE_TTL"`
	SMTPHost           string        `mapstructure:"SMTP_HOST"`
	SMTPPort           string        `mapstructure:"SMTP_PORT"`
	SMTPUser           string        `mapstructure:"SMTP_USER"`
	SMTPPassword       string        `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom           string        `mapstructure:"SMTP_FROM"`
}

var defaults = map[string]any{
	"PORT":                "8080",
	"DATABASE_URL":        "",
	"SESSION_SECRET":      "",
	"LOG_LEVEL":           "info",
	"APP_ENV":             "production",
	"FRONTEND_URL":        "",
	"DELIVERY_FEE":        4.99,
	"BUNDLE_PRICE":        5.99,
	"MAX_RECOMMENDATIONS": 2,
	"RELATED_ITEMS":       4,
	"KAFKA_BROKERS":       "",
	"KAFKA_TICKET_TOPIC":  "kitchen-tickets",
	"CHECKOUT_RATE_LIMIT": 10,
	"SESSION_IDLE_TTL":    2 * time.Hour,
	"SMTP_HOST":           "",
	"SMTP_PORT":           "",
	"SMTP_USER":           "",
	"SMTP_PASSWORD":       "",
	"SMTP_FROM":           "",
}

// LoadEnv loads a .env file from the working directory. A missing file is
// not an error; a file that cannot be read or parsed is.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not load .env: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment. Unset keys fall back
// to their defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// EmailEnabled reports whether enough SMTP settings are present to send
// order confirmations.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPFrom != ""
}

// ValidateEnv checks that critical settings are present.
// Returns an error if any critical setting is missing.
func ValidateEnv(cfg *Config, log *zap.Logger) error {
	var missing []string

	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	if cfg.FrontendURL == "" {
		log.Warn("FRONTEND_URL not set - CORS may not work correctly")
	}
	if cfg.KafkaBrokers == "" {
		log.Warn("KAFKA_BROKERS not set - kitchen tickets will only be logged")
	}
	if !cfg.EmailEnabled() {
		log.Warn("SMTP settings incomplete - order confirmation emails will not be sent")
	}

	return nil
}

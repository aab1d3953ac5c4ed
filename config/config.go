package config

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	PublicOrigin      string `mapstructure:"PUBLIC_ORIGIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Google Maps API Key.
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	// Mail delivery.
	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`
	OwnerEmail        string `mapstructure:"OWNER_EMAIL"`
	PushoverBCCEmail  string `mapstructure:"PUSHOVER_BCC_EMAIL"`
	MailQueueEnabled  bool   `mapstructure:"MAIL_QUEUE_ENABLED"`

	// Tenants and funnel.
	DefaultContactPhone string `mapstructure:"DEFAULT_CONTACT_PHONE"`
	TenantsFile         string `mapstructure:"TENANTS_FILE"`
	SessionSecret       string `mapstructure:"SESSION_SECRET"`

	// Submission limiter.
	QuoteLimitPerMinute int `mapstructure:"QUOTE_LIMIT_PER_MINUTE"`
	QuoteLimitPerHour   int `mapstructure:"QUOTE_LIMIT_PER_HOUR"`
}

var AppConfig Config

// DevSessionSecret signs session cookies outside production when
// SESSION_SECRET is unset.
const DevSessionSecret = "instaquote-dev-secret"

var ErrMissingSessionSecret = errors.New("SESSION_SECRET must be set in production")

// Finalize fills development-only fallbacks and rejects settings that must
// never be defaulted in production.
func (c *Config) Finalize() error {
	if c.SessionSecret != "" {
		return nil
	}
	if c.Env == "production" {
		return ErrMissingSessionSecret
	}
	c.SessionSecret = DevSessionSecret
	return nil
}

func LoadConfig() {
	// A local .env is optional; real environment variables still win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("PUBLIC_ORIGIN", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("SENDGRID_FROM_EMAIL", "")
	viper.SetDefault("SENDGRID_FROM_NAME", "Instant Quote")
	viper.SetDefault("OWNER_EMAIL", "")
	viper.SetDefault("PUSHOVER_BCC_EMAIL", "")
	viper.SetDefault("MAIL_QUEUE_ENABLED", false)
	viper.SetDefault("DEFAULT_CONTACT_PHONE", "")
	viper.SetDefault("TENANTS_FILE", "")
	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("QUOTE_LIMIT_PER_MINUTE", 5)
	viper.SetDefault("QUOTE_LIMIT_PER_HOUR", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := AppConfig.Finalize(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

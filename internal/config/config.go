package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App     AppConfig
	Redis   RedisConfig
	JWT     JWTConfig
	SMTP    SMTPConfig
	Stripe  StripeConfig
	MinIO   MinIOConfig
	Storage StorageConfig
	Journal JournalConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	BaseURL     string // public base URL used in emails and payment redirects
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

// StripeConfig holds checkout + webhook credentials.
// SecretKey authorizes session creation, WebhookSecret verifies callbacks.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	APIURL        string
	SuccessURL    string
	CancelURL     string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig controls the local-filesystem fallback used when no
// MinIO credential is configured.
type StorageConfig struct {
	LocalDir string
}

// JournalConfig holds editorial defaults
type JournalConfig struct {
	Name         string
	ISSN         string
	MinFeeCents  int64
	ReviewWindow int // default review window in days
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Journal API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "localhost"),
			Port: getEnv("SMTP_PORT", "1025"),
			From: getEnv("SMTP_FROM", "editorial@journal.dev"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			APIURL:        getEnv("STRIPE_API_URL", "https://api.stripe.com"),
			SuccessURL:    getEnv("STRIPE_SUCCESS_URL", "http://localhost:8080/payment/success"),
			CancelURL:     getEnv("STRIPE_CANCEL_URL", "http://localhost:8080/payment/cancel"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "journal"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Storage: StorageConfig{
			LocalDir: getEnv("STORAGE_LOCAL_DIR", "./data/storage"),
		},
		Journal: JournalConfig{
			Name:         getEnv("JOURNAL_NAME", "American Impact Review"),
			ISSN:         getEnv("JOURNAL_ISSN", ""),
			MinFeeCents:  int64(getEnvInt("JOURNAL_MIN_FEE_CENTS", 100)),
			ReviewWindow: getEnvInt("JOURNAL_REVIEW_WINDOW_DAYS", 14),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks critical config values
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Stripe.WebhookSecret == "" {
			fmt.Println("WARNING: STRIPE_WEBHOOK_SECRET not set - payment webhooks will be rejected")
		}
		if c.MinIO.AccessKey == "" {
			fmt.Println("WARNING: MinIO credentials not set - falling back to local storage")
		}
	}

	return nil
}

// UseMinIO reports whether object storage credentials are configured
func (c *Config) UseMinIO() bool {
	return c.MinIO.Endpoint != "" && c.MinIO.AccessKey != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

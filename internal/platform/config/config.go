package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	DBMaxConns        int32
	DBMaxConnLifetime time.Duration

	// Rate limits in ulule format, e.g. "10-M".
	SensitiveRateLimit string
	GlobalRateLimit    string

	NotificationWebhookURL    string
	NotificationWebhookSecret string
	NotificationPollInterval  time.Duration
	NotificationBatchSize     int

	SchedulerPollInterval time.Duration
	SchedulerBatchSize    int

	AsyncWorkers    int
	ShutdownTimeout time.Duration

	PosthogAPIKey   string
	PosthogEndpoint string

	CORSAllowedOrigins []string
	MigrationsPath     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_CONN_LIFETIME", "30m")
	v.SetDefault("RATE_LIMIT_SENSITIVE", "10-M")
	v.SetDefault("RATE_LIMIT_GLOBAL", "300-M")
	v.SetDefault("NOTIFICATION_WEBHOOK_URL", "")
	v.SetDefault("NOTIFICATION_WEBHOOK_SECRET", "")
	v.SetDefault("NOTIFICATION_POLL_INTERVAL", "5s")
	v.SetDefault("NOTIFICATION_BATCH_SIZE", 20)
	v.SetDefault("SCHEDULER_POLL_INTERVAL", "1m")
	v.SetDefault("SCHEDULER_BATCH_SIZE", 50)
	v.SetDefault("ASYNC_WORKERS", 8)
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:               v.GetString("PGSQL_URL"),
		Port:                      v.GetString("PORT"),
		IsProduction:              v.GetBool("IS_PRODUCTION"),
		JWTSecret:                 v.GetString("JWT_SECRET"),
		DBMaxConns:                v.GetInt32("DB_MAX_CONNS"),
		DBMaxConnLifetime:         v.GetDuration("DB_MAX_CONN_LIFETIME"),
		SensitiveRateLimit:        v.GetString("RATE_LIMIT_SENSITIVE"),
		GlobalRateLimit:           v.GetString("RATE_LIMIT_GLOBAL"),
		NotificationWebhookURL:    v.GetString("NOTIFICATION_WEBHOOK_URL"),
		NotificationWebhookSecret: v.GetString("NOTIFICATION_WEBHOOK_SECRET"),
		NotificationPollInterval:  v.GetDuration("NOTIFICATION_POLL_INTERVAL"),
		NotificationBatchSize:     v.GetInt("NOTIFICATION_BATCH_SIZE"),
		SchedulerPollInterval:     v.GetDuration("SCHEDULER_POLL_INTERVAL"),
		SchedulerBatchSize:        v.GetInt("SCHEDULER_BATCH_SIZE"),
		AsyncWorkers:              v.GetInt("ASYNC_WORKERS"),
		ShutdownTimeout:           v.GetDuration("SHUTDOWN_TIMEOUT"),
		PosthogAPIKey:             v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:           v.GetString("POSTHOG_ENDPOINT"),
		CORSAllowedOrigins:        splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		MigrationsPath:            v.GetString("MIGRATIONS_PATH"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.NotificationWebhookURL != "" && cfg.NotificationWebhookSecret == "" {
		log.Println("Warning: NOTIFICATION_WEBHOOK_SECRET not set. Webhook payloads will be signed with an empty key.")
	}

	if cfg.NotificationPollInterval <= 0 || cfg.SchedulerPollInterval <= 0 {
		return nil, fmt.Errorf("poll intervals must be positive")
	}
	if cfg.AsyncWorkers <= 0 {
		cfg.AsyncWorkers = 1
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

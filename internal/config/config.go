// Package config loads the application's configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values.
type Config struct {
	ServerPort          string
	LogLevel            slog.Level
	LogFormat           string
	GitHubWebhookSecret string
	SlackToken          string
	SlackBotName        string
	IdentityMapPath     string
	ReminderCronSpec    string
	MaxWorkers          int
	StoreBackend        string
	Database            DBConfig
}

// DBConfig holds the PostgreSQL connection settings used when the store
// backend is "postgres".
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("SLACK_BOT_NAME", "Marvel bot")
	viper.SetDefault("IDENTITY_MAP_PATH", "users.yaml")
	// Business days at 10:10, matching the reference deployment. The process
	// timezone decides what "10:10" means.
	viper.SetDefault("REMINDER_CRON_SPEC", "10 10 * * 1-5")
	viper.SetDefault("MAX_WORKERS", 5)
	viper.SetDefault("STORE_BACKEND", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "preminder")
	viper.SetDefault("DB_NAME", "preminder")
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no .env file found, using environment only")
		} else {
			// A present but unparseable .env must not be silently ignored.
			slog.Warn("failed to read .env file, continuing with environment only", "error", err)
		}
	}

	if viper.GetString("SLACK_TOKEN") == "" {
		return nil, fmt.Errorf("SLACK_TOKEN must be set")
	}

	backend := strings.ToLower(viper.GetString("STORE_BACKEND"))
	switch backend {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q (want postgres or memory)", backend)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		slog.Warn("unrecognized log level, defaulting to info", "provided", viper.GetString("LOG_LEVEL"))
		logLevel = slog.LevelInfo
	}

	return &Config{
		ServerPort:          viper.GetString("SERVER_PORT"),
		LogLevel:            logLevel,
		LogFormat:           viper.GetString("LOG_FORMAT"),
		GitHubWebhookSecret: viper.GetString("GITHUB_WEBHOOK_SECRET"),
		SlackToken:          viper.GetString("SLACK_TOKEN"),
		SlackBotName:        viper.GetString("SLACK_BOT_NAME"),
		IdentityMapPath:     viper.GetString("IDENTITY_MAP_PATH"),
		ReminderCronSpec:    viper.GetString("REMINDER_CRON_SPEC"),
		MaxWorkers:          viper.GetInt("MAX_WORKERS"),
		StoreBackend:        backend,
		Database: DBConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_NAME"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
	}, nil
}

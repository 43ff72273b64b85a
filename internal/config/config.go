package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"os"

	"github.com/aquamate/hydration-helper/internal/logger"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	Timezone      string
	DB            DBConfig
	Redis         RedisConfig
	Reminder      ReminderConfig
	Logger        logger.Config
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Enabled bool
	Host    string
	Port    string
}

// ReminderConfig controls the inactivity nudges. Reminders fire only between
// WakeHour and SleepHour after Interval without any logged intake.
type ReminderConfig struct {
	Interval  time.Duration
	WakeHour  int
	SleepHour int
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	reminderMinutes := getEnvInt("REMINDER_INTERVAL_MINUTES", 120)

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		Timezone:      getEnvOrDefault("TZ", "UTC"),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "hydration_helper"),
		},
		Redis: RedisConfig{
			Enabled: getEnvOrDefault("REDIS_ENABLED", "false") == "true",
			Host:    getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:    getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Reminder: ReminderConfig{
			Interval:  time.Duration(reminderMinutes) * time.Minute,
			WakeHour:  getEnvInt("REMINDER_WAKE_HOUR", 8),
			SleepHour: getEnvInt("REMINDER_SLEEP_HOUR", 22),
		},
		Logger: logger.Config{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required settings. The bot cannot start without a
// telegram token; everything else has workable defaults.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TZ %q: %w", c.Timezone, err)
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL_MINUTES must be positive")
	}
	if c.Reminder.WakeHour < 0 || c.Reminder.WakeHour > 23 ||
		c.Reminder.SleepHour < 0 || c.Reminder.SleepHour > 23 {
		return fmt.Errorf("reminder hours must be within 0-23")
	}
	return nil
}

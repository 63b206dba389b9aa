package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SlotBackendSheets   = "sheets"
	SlotBackendPostgres = "postgres"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	Environment   string `mapstructure:"ENV"`

	// Хранилище слотов
	SlotBackend             string `mapstructure:"SLOT_BACKEND"`
	GoogleSheetID           string `mapstructure:"GOOGLE_SHEET_ID"`
	GoogleCredentialsFile   string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	SheetsPendingSheet      string `mapstructure:"SHEETS_PENDING_SHEET"`
	SheetsStatusColumn      string `mapstructure:"SHEETS_STATUS_COLUMN"`
	SheetsRequestsPerMinute int    `mapstructure:"SHEETS_REQUESTS_PER_MINUTE"`
	DBDSN                   string `mapstructure:"DB_DSN"`

	// Сессии диалогов
	SessionBackend       string        `mapstructure:"SESSION_BACKEND"`
	SessionTTL           time.Duration `mapstructure:"SESSION_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int           `mapstructure:"REDIS_DB"`

	// Пусто - события не публикуются
	AMQPURL string `mapstructure:"AMQP_URL"`
}

var defaults = map[string]any{
	"TELEGRAM_TOKEN":             "",
	"ENV":                        "development",
	"SLOT_BACKEND":               SlotBackendSheets,
	"GOOGLE_SHEET_ID":            "",
	"GOOGLE_CREDENTIALS_FILE":    "credentials.json",
	"SHEETS_PENDING_SHEET":       "",
	"SHEETS_STATUS_COLUMN":       "C",
	"SHEETS_REQUESTS_PER_MINUTE": 60,
	"DB_DSN":                     "",
	"SESSION_BACKEND":            SessionBackendMemory,
	"SESSION_TTL":                "24h",
	"SESSION_SWEEP_INTERVAL":     "10m",
	"REDIS_ADDR":                 "localhost:6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"AMQP_URL":                   "",
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения и проверяет её
func FromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	// AutomaticEnv видит только известные ключи, поэтому дефолт есть у каждого
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.SlotBackend = strings.ToLower(strings.TrimSpace(cfg.SlotBackend))
	cfg.SessionBackend = strings.ToLower(strings.TrimSpace(cfg.SessionBackend))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	switch c.SlotBackend {
	case SlotBackendSheets:
		if c.GoogleSheetID == "" {
			return fmt.Errorf("GOOGLE_SHEET_ID is required for SLOT_BACKEND=%s", c.SlotBackend)
		}
		if c.SheetsRequestsPerMinute <= 0 {
			return fmt.Errorf("SHEETS_REQUESTS_PER_MINUTE must be positive, got %d", c.SheetsRequestsPerMinute)
		}
	case SlotBackendPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for SLOT_BACKEND=%s", c.SlotBackend)
		}
	default:
		return fmt.Errorf("unknown SLOT_BACKEND %q", c.SlotBackend)
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
		if c.SessionSweepInterval <= 0 {
			return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SessionSweepInterval)
		}
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for SESSION_BACKEND=%s", c.SessionBackend)
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

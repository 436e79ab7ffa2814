package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Storage drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// AppConfig holds the application configuration
type AppConfig struct {
	Env         string
	Port        string
	LogFile     string
	CorsOrigins []string
	StoreDriver string
	DBURL       string
	SQLitePath  string
	// Migrations switches Postgres from AutoMigrate to the embedded SQL migrations.
	Migrations   bool
	BearerToken  string
	SymmetricKey string
	Redis        RedisConfig
	Telegram     TelegramConfig
	SMTP         SMTPConfig
	Report       ReportConfig
}

// RedisConfig is optional: an empty URL keeps locks and caching in process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	MinIdleConns int
	ReadTimeout  time.Duration
	MaxRetries   int
}

// TelegramConfig enables receipts to the clinic chat when both fields are set.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// SMTPConfig enables receipts by email when Host and To are set.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

type ReportConfig struct {
	TopN         int
	EndExclusive bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Env:          getEnv("ENV", "production"),
		Port:         getEnv("PORT", "8930"),
		LogFile:      os.Getenv("LOG_FILE"),
		CorsOrigins:  getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		StoreDriver:  getEnv("STORE_DRIVER", DriverPostgres),
		DBURL:        os.Getenv("DB_URL"),
		SQLitePath:   getEnv("SQLITE_PATH", "thdent.db"),
		Migrations:   getEnvAsBool("MIGRATIONS", false),
		BearerToken:  os.Getenv("BEARER_TOKEN"),
		SymmetricKey: os.Getenv("SYMMETRIC_KEY"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 30*time.Second),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 10*time.Second),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			To:       os.Getenv("SMTP_NOTIFY_TO"),
		},
		Report: ReportConfig{
			TopN:         getEnvAsInt("REPORT_TOP_N", 5),
			EndExclusive: getEnvAsBool("REPORT_END_EXCLUSIVE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBURL == "" {
			return errors.New("missing DB_URL environment variable")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH environment variable")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.BearerToken == "" {
		return errors.New("missing BEARER_TOKEN environment variable")
	}
	if len(c.SymmetricKey) != 32 {
		return fmt.Errorf("SYMMETRIC_KEY must be 32 bytes long, got %d", len(c.SymmetricKey))
	}
	if c.Report.TopN <= 0 {
		return fmt.Errorf("REPORT_TOP_N must be positive, got %d", c.Report.TopN)
	}
	return nil
}

// GetBearerToken returns the BearerToken from the config
func (c *AppConfig) GetBearerToken() string {
	return c.BearerToken
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if value, exists := os.LookupEnv(name); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Warn().Str("key", name).Int("default", defaultValue).Msg("invalid integer value, using default")
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(name); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Warn().Str("key", name).Bool("default", defaultValue).Msg("invalid boolean value, using default")
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(name); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
		log.Warn().Str("key", name).Str("default", defaultValue.String()).Msg("invalid duration value, using default")
	}
	return defaultValue
}

func getEnvAsList(name string, defaultValue []string) []string {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

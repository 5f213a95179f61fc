package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for the watchlist
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Storage
	Storage StorageConfig

	// Database (postgres watchlist backend only)
	Database DatabaseConfig

	// Redis (shared snapshot cache + rate limit)
	Redis RedisConfig

	// Market data
	Yahoo  YahooConfig
	Market MarketConfig

	// Scheduled refresh
	Refresh RefreshConfig

	// HTTP
	CORSAllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string
}

// StorageConfig selects and locates the watchlist / default-stock persistence
type StorageConfig struct {
	Backend           string
	WatchlistFile     string
	DefaultStocksFile string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// YahooConfig holds Yahoo Finance access settings
type YahooConfig struct {
	QuoteSummaryURL string
	Timeout         time.Duration
	MaxRetries      int
	RetryWait       time.Duration
	RetryMaxWait    time.Duration
	HistoryPeriod   time.Duration
}

// MarketConfig controls snapshot caching and fetch throttling
type MarketConfig struct {
	CacheTTL     time.Duration
	MinInterval  time.Duration // minimum spacing between upstream fetches
	FetchTimeout time.Duration // bound on one shared snapshot fetch, retries included
}

// RefreshConfig controls the scheduled watchlist refresh
type RefreshConfig struct {
	Enabled  bool
	Schedule string // cron expression with seconds field
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "5002"),
		Env:  getEnv("ENV", "development"),

		Storage: StorageConfig{
			Backend:           strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile)),
			WatchlistFile:     getEnv("WATCHLIST_FILE", "watchlist.json"),
			DefaultStocksFile: getEnv("DEFAULT_STOCKS_FILE", "default_stocks.json"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Yahoo: YahooConfig{
			QuoteSummaryURL: getEnv("YAHOO_QUOTE_SUMMARY_URL", "https://query2.finance.yahoo.com/v10/finance/quoteSummary"),
			Timeout:         getEnvAsDuration("YAHOO_TIMEOUT", "30s"),
			MaxRetries:      getEnvAsInt("YAHOO_MAX_RETRIES", 4),
			RetryWait:       getEnvAsDuration("YAHOO_RETRY_WAIT", "4s"),
			RetryMaxWait:    getEnvAsDuration("YAHOO_RETRY_MAX_WAIT", "10s"),
			HistoryPeriod:   getEnvAsDuration("HISTORY_PERIOD", "8760h"),
		},

		Market: MarketConfig{
			CacheTTL:     getEnvAsDuration("CACHE_TTL", "4h"),
			MinInterval:  getEnvAsDuration("YAHOO_MIN_INTERVAL", "10s"),
			FetchTimeout: getEnvAsDuration("FETCH_TIMEOUT", "2m"),
		},

		Refresh: RefreshConfig{
			Enabled:  getEnvAsBool("REFRESH_ENABLED", true),
			Schedule: getEnv("REFRESH_SCHEDULE", "0 */30 * * * *"),
		},

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Storage.Backend {
	case StorageFile:
		if c.Storage.WatchlistFile == "" {
			return fmt.Errorf("WATCHLIST_FILE is required for the file backend")
		}
	case StoragePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: %s, %s", StorageFile, StoragePostgres)
	}

	if c.Yahoo.MaxRetries < 0 {
		return fmt.Errorf("YAHOO_MAX_RETRIES must not be negative")
	}
	if c.Market.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma-separated value, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	items := make([]string, 0)
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

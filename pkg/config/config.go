package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server (status API)
	Port string
	Env  string // development, staging, production

	// Database (optional, holdings snapshot source)
	Database DatabaseConfig

	// Redis (quote cache + API rate limiting)
	Redis RedisConfig

	// External APIs
	AlphaVantage AlphaVantageConfig
	FRED         FREDConfig
	Finnhub      FinnhubConfig

	// Delivery
	GitHub   GitHubConfig
	Telegram TelegramConfig

	// Pipeline
	Pipeline PipelineConfig

	// Logging
	LogLevel  string
	LogFormat string
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

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string

	// Free tier: 5 calls/min
	RateLimit  int
	RateWindow time.Duration
	CacheTTL   time.Duration
}

// FREDConfig holds FRED (St. Louis Fed) API configuration
type FREDConfig struct {
	APIKey  string
	BaseURL string
}

// FinnhubConfig holds Finnhub news-sentiment API configuration
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
}

// GitHubConfig holds the issue-publisher configuration
type GitHubConfig struct {
	Token      string
	Repository string // owner/repo
	BaseURL    string
}

// TelegramConfig holds the notifier configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// PipelineConfig holds run-level budgets and file inputs
type PipelineConfig struct {
	// Hard wall-clock budget for one full run
	Deadline time.Duration

	// External-call retry policy
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	StrategyPath string
	HoldingsPath string
	HolidaysPath string
	EventsPath   string

	// Holdings snapshot older than this is flagged on the report
	SnapshotMaxAge time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
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

		AlphaVantage: AlphaVantageConfig{
			APIKey:     getEnv("ALPHA_VANTAGE_API_KEY", ""),
			BaseURL:    getEnv("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
			RateLimit:  getEnvAsInt("ALPHA_VANTAGE_RATE_LIMIT", 5),
			RateWindow: getEnvAsDuration("ALPHA_VANTAGE_RATE_WINDOW", "1m"),
			CacheTTL:   getEnvAsDuration("ALPHA_VANTAGE_CACHE_TTL", "5m"),
		},

		FRED: FREDConfig{
			APIKey:  getEnv("FRED_API_KEY", ""),
			BaseURL: getEnv("FRED_BASE_URL", "https://api.stlouisfed.org/fred"),
		},

		Finnhub: FinnhubConfig{
			APIKey:  getEnv("FINNHUB_API_KEY", ""),
			BaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		},

		GitHub: GitHubConfig{
			Token:      getEnv("GITHUB_TOKEN", ""),
			Repository: getEnv("GITHUB_REPOSITORY", ""),
			BaseURL:    getEnv("GITHUB_API_URL", "https://api.github.com"),
		},

		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},

		Pipeline: PipelineConfig{
			Deadline:       getEnvAsDuration("PIPELINE_DEADLINE", "10m"),
			MaxRetries:     getEnvAsInt("PIPELINE_MAX_RETRIES", 3),
			RetryBaseDelay: getEnvAsDuration("PIPELINE_RETRY_BASE_DELAY", "1s"),
			RetryMaxDelay:  getEnvAsDuration("PIPELINE_RETRY_MAX_DELAY", "30s"),
			StrategyPath:   getEnv("STRATEGY_PATH", "config/strategy/us_digest_v1.yaml"),
			HoldingsPath:   getEnv("HOLDINGS_PATH", "data/portfolio.json"),
			HolidaysPath:   getEnv("HOLIDAYS_PATH", "data/nyse_holidays.json"),
			EventsPath:     getEnv("EVENTS_PATH", "data/economic_calendar.json"),
			SnapshotMaxAge: getEnvAsDuration("SNAPSHOT_MAX_AGE", "24h"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
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

	if c.Pipeline.Deadline <= 0 {
		return fmt.Errorf("PIPELINE_DEADLINE must be positive")
	}

	if c.Pipeline.MaxRetries < 1 {
		return fmt.Errorf("PIPELINE_MAX_RETRIES must be at least 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

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
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Redis     RedisConfig
	Upstream  UpstreamConfig
	Summary   SummaryConfig
	MinIO     MinIOConfig
	Job       JobConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, production
	Port        string
	Version     string
}

// StoreConfig chọn backend cho country repository
type StoreConfig struct {
	Driver string // postgres | memory
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// UpstreamConfig mô tả hai external API: country directory và exchange rates
type UpstreamConfig struct {
	CountriesURL string
	RatesURL     string
	Timeout      time.Duration
}

type SummaryConfig struct {
	ImagePath string // nơi ghi summary.png, overwrite mỗi lần refresh
	FontPath  string // TrueType font; rỗng hoặc lỗi → basicfont
}

type MinIOConfig struct {
	Enabled   bool
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type JobConfig struct {
	RefreshCron string
}

type RateLimitConfig struct {
	RefreshPerMinute int // 0 = disabled
	RefreshBurst     int
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	DefaultCountriesURL = "https://restcountries.com/v2/all?fields=name,capital,region,population,flag,currencies"
	DefaultRatesURL     = "https://open.er-api.com/v6/latest/USD"
)

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Country Currency API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Upstream: UpstreamConfig{
			CountriesURL: getEnv("COUNTRIES_API_URL", DefaultCountriesURL),
			RatesURL:     getEnv("EXCHANGE_API_URL", DefaultRatesURL),
			Timeout:      getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Summary: SummaryConfig{
			ImagePath: getEnv("SUMMARY_IMAGE_PATH", "cache/summary.png"),
			FontPath:  getEnv("SUMMARY_FONT_PATH", ""),
		},
		MinIO: MinIOConfig{
			Enabled:   getEnvBool("MINIO_ENABLED", false),
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "countries"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Job: JobConfig{
			RefreshCron: getEnv("REFRESH_CRON", "0 */6 * * *"),
		},
		RateLimit: RateLimitConfig{
			RefreshPerMinute: getEnvInt("REFRESH_RATE_PER_MINUTE", 6),
			RefreshBurst:     getEnvInt("REFRESH_RATE_BURST", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.App.Port); err != nil {
		return fmt.Errorf("APP_PORT must be numeric, got %q", c.App.Port)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			StoreDriverPostgres, StoreDriverMemory, c.Store.Driver)
	}

	for name, raw := range map[string]string{
		"COUNTRIES_API_URL": c.Upstream.CountriesURL,
		"EXCHANGE_API_URL":  c.Upstream.RatesURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	if c.Summary.ImagePath == "" {
		return fmt.Errorf("SUMMARY_IMAGE_PATH must not be empty")
	}

	if c.RateLimit.RefreshPerMinute < 0 || c.RateLimit.RefreshBurst < 0 {
		return fmt.Errorf("refresh rate limit values must not be negative")
	}

	if c.App.Environment == "production" && c.Store.Driver == StoreDriverPostgres {
		if os.Getenv("DB_PASSWORD") == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// IsProduction tiện cho gin mode và logger
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvBool(key string, defaultValue bool) bool {
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

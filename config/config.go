package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Gemini    GeminiConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Geocoder  GeocoderConfig
	Scraper   ScraperConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the outlet store backend
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

// GeminiConfig holds Gemini API configuration. An empty key disables assisted extraction.
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration, in requests per minute
type RateLimitConfig struct {
	PerIP  int `mapstructure:"per_ip"` // 0 disables the per-IP limiter
	Gemini int `mapstructure:"gemini"`
}

// GeocoderConfig holds Nominatim configuration
type GeocoderConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	UserAgent         string  `mapstructure:"user_agent"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// ScraperConfig holds headless-browser settings for the locator scraper
type ScraperConfig struct {
	URL         string        `mapstructure:"url"`
	State       string        `mapstructure:"state"`
	ChromePath  string        `mapstructure:"chrome_path"` // empty searches the usual install locations
	NoSandbox   bool          `mapstructure:"no_sandbox"`
	PageTimeout time.Duration `mapstructure:"page_timeout"`
	MaxPages    int           `mapstructure:"max_pages"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mcd-locator/")

	// Environment variable settings: MCD_SERVER_PORT -> server.port
	v.SetEnvPrefix("MCD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.api_key", "MCD_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding gemini api key: %w", err)
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Existing environment variables win.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/mcd.db")

	// Gemini defaults
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.timeout", "10s")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.gemini", 60)

	// Geocoder defaults
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "mcd-geocoder/1.0")
	v.SetDefault("geocoder.requests_per_second", 1.0)

	// Scraper defaults
	v.SetDefault("scraper.url", "https://www.mcdonalds.com.my/locate-us")
	v.SetDefault("scraper.state", "Kuala Lumpur")
	v.SetDefault("scraper.chrome_path", "")
	v.SetDefault("scraper.no_sandbox", false)
	v.SetDefault("scraper.page_timeout", "20s")
	v.SetDefault("scraper.max_pages", 50)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Database.Driver {
	case "sqlite":
	case "postgres":
		if config.Database.DSN == "" {
			return fmt.Errorf("database DSN is required when driver is 'postgres' (set MCD_DATABASE_DSN)")
		}
	default:
		return fmt.Errorf("database driver must be 'sqlite' or 'postgres', got: %s", config.Database.Driver)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Gemini.Timeout <= 0 {
		return fmt.Errorf("gemini timeout must be positive, got: %s", config.Gemini.Timeout)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit cannot be negative, got: %d", config.RateLimit.PerIP)
	}

	if config.Geocoder.RequestsPerSecond <= 0 {
		return fmt.Errorf("geocoder requests per second must be positive, got: %v", config.Geocoder.RequestsPerSecond)
	}

	if config.Scraper.PageTimeout <= 0 {
		return fmt.Errorf("scraper page timeout must be positive, got: %s", config.Scraper.PageTimeout)
	}

	if config.Scraper.MaxPages < 0 {
		return fmt.Errorf("scraper max pages cannot be negative, got: %d", config.Scraper.MaxPages)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.Log.Level, err)
	}

	return nil
}

// GeminiEnabled reports whether assisted extraction can be used
func (c *Config) GeminiEnabled() bool {
	return c.Gemini.APIKey != ""
}

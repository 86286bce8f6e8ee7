package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Anthropic AnthropicConfig
	Briefing  BriefingConfig
	Kiosk     KioskConfig
	OTEL      OTELConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
}

// DatabaseConfig holds the Open Dental MySQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AnthropicConfig holds the Anthropic API configuration
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// BriefingConfig holds briefing generation configuration
type BriefingConfig struct {
	ArchiveDir string
	CronSpec   string
	CacheTTL   int // seconds
}

// KioskConfig holds kiosk configuration
type KioskConfig struct {
	ImageRoot      string
	SearchURL      string
	CountdownTicks int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 3306),
			User:     getEnv("DB_USER", "opendental"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "opendental"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Anthropic: AnthropicConfig{
			APIKey:    getEnv("ANTHROPIC_API_KEY", ""),
			Model:     getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
			MaxTokens: getEnvAsInt("ANTHROPIC_MAX_TOKENS", 8192),
		},
		Briefing: BriefingConfig{
			ArchiveDir: getEnv("BRIEFING_ARCHIVE_DIR", "logs"),
			CronSpec:   getEnv("BRIEFING_CRON_SPEC", "0 8 * * *"),
			CacheTTL:   getEnvAsInt("BRIEFING_CACHE_TTL", 86400),
		},
		Kiosk: KioskConfig{
			ImageRoot:      getEnv("OPENDENT_IMAGE_PATH", ""),
			SearchURL:      getEnv("KIOSK_SEARCH_URL", "http://localhost:8080"),
			CountdownTicks: getEnvAsInt("KIOSK_COUNTDOWN_TICKS", 30),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "dentaldesk"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the MySQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

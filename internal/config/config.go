// file: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Logging  LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

// DatabaseConfig holds Postgres configuration
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	SlowQueryThreshold time.Duration
	MigrationsPath     string
	ConnectTimeout     time.Duration
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret        string
	JWTExpiry        time.Duration
	BCryptCost       int
	MaxLoginAttempts int
	LockoutDuration  time.Duration
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	RedisURL       string
	Enabled        bool
	LeaderboardTTL time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load reads configuration from the environment, with .env support in development
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		// Missing .env is fine; env vars may be set directly
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "9000"),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Environment:     env,
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			GracefulTimeout: getDurationEnv("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime:    getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
			MigrationsPath:     getEnv("DB_MIGRATIONS_PATH", "migrations"),
			ConnectTimeout:     getDurationEnv("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			JWTExpiry:        getDurationEnv("JWT_EXPIRY", 24*time.Hour),
			BCryptCost:       getIntEnv("BCRYPT_COST", 12),
			MaxLoginAttempts: getIntEnv("MAX_LOGIN_ATTEMPTS", 5),
			LockoutDuration:  getDurationEnv("LOCKOUT_DURATION", 15*time.Minute),
		},
		Cache: CacheConfig{
			RedisURL:       getEnv("REDIS_URL", ""),
			Enabled:        getBoolEnv("CACHE_ENABLED", true),
			LeaderboardTTL: getDurationEnv("LEADERBOARD_CACHE_TTL", 30*time.Second),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", defaultLogLevel(env)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required settings and cross-field constraints
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Server.Environment == "production" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.Auth.BCryptCost < 10 || c.Auth.BCryptCost > 15 {
		return fmt.Errorf("BCRYPT_COST must be between 10 and 15, got %d", c.Auth.BCryptCost)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) cannot exceed DB_MAX_OPEN_CONNS (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func defaultLogLevel(env string) string {
	if env == "production" {
		return "info"
	}
	return "debug"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

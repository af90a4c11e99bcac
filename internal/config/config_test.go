// file: internal/config/config_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/sprintdeck_test?sslmode=disable")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 12, cfg.Auth.BCryptCost)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, 30*time.Second, cfg.Cache.LeaderboardTTL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "migrations", cfg.Database.MigrationsPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("LEADERBOARD_CACHE_TTL", "5s")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, 5*time.Second, cfg.Cache.LeaderboardTTL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GO_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateJWTSecretLengthInProduction(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateBCryptCostRange(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "4")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestValidateConnPoolConsistency(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("DB_MAX_IDLE_CONNS", "10")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_IDLE_CONNS")
}

func TestProductionLogLevelDefault(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "info", cfg.Logging.Level)
}

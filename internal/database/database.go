// file: internal/database/database.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"sprintdeck/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Manager wraps the sql.DB pool with query logging, metrics and health checks
type Manager struct {
	db     *sql.DB
	cfg    *config.DatabaseConfig
	logger *zap.Logger

	metrics Metrics
	mu      sync.Mutex
}

// Metrics tracks basic query statistics
type Metrics struct {
	QueryCount     int64         `json:"query_count"`
	ErrorCount     int64         `json:"error_count"`
	SlowQueryCount int64         `json:"slow_query_count"`
	TotalDuration  time.Duration `json:"-"`
}

// HealthStatus describes the state of the database connection
type HealthStatus struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time"`
	OpenConns    int           `json:"open_conns"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	Errors       []string      `json:"errors,omitempty"`
}

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// NewManager opens the connection pool and waits for the database to respond
func NewManager(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	m := &Manager{db: db, cfg: cfg, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := m.waitForPing(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database did not become reachable: %w", err)
	}

	logger.Info("Database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
	)

	return m, nil
}

// waitForPing pings with exponential backoff until the context expires
func (m *Manager) waitForPing(ctx context.Context) error {
	bo := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	return backoff.Retry(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := m.db.PingContext(pingCtx); err != nil {
			m.logger.Warn("Database ping failed, retrying", zap.Error(err))
			return err
		}
		return nil
	}, bo)
}

// RunMigrations applies pending schema migrations from the configured path
func (m *Manager) RunMigrations() error {
	driver, err := postgres.WithInstance(m.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", m.cfg.MigrationsPath),
		"postgres", driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty migration state at version %d", version)
	}

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	m.logger.Info("Migrations applied",
		zap.Uint("from_version", version),
		zap.Uint("to_version", newVersion),
	)

	return nil
}

// ===============================
// QUERY EXECUTION
// ===============================

// ExecContext executes a statement with metrics and slow-query logging
func (m *Manager) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := m.db.ExecContext(ctx, query, args...)
	m.observe(query, time.Since(start), err)
	return result, err
}

// QueryContext executes a query that returns rows
func (m *Manager) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := m.db.QueryContext(ctx, query, args...)
	m.observe(query, time.Since(start), err)
	return rows, err
}

// QueryRowContext executes a query that returns a single row
func (m *Manager) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := m.db.QueryRowContext(ctx, query, args...)
	m.observe(query, time.Since(start), nil)
	return row
}

// BeginTx starts a transaction
func (m *Manager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return m.db.BeginTx(ctx, opts)
}

func (m *Manager) observe(query string, duration time.Duration, err error) {
	m.mu.Lock()
	m.metrics.QueryCount++
	m.metrics.TotalDuration += duration
	if err != nil && err != sql.ErrNoRows {
		m.metrics.ErrorCount++
	}
	slow := duration > m.cfg.SlowQueryThreshold
	if slow {
		m.metrics.SlowQueryCount++
	}
	m.mu.Unlock()

	if slow {
		m.logger.Warn("Slow query detected",
			zap.String("query", truncateQuery(query)),
			zap.Duration("duration", duration),
		)
	}
}

// ===============================
// HEALTH AND METRICS
// ===============================

// Health pings the database and reports pool statistics
func (m *Manager) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	status := HealthStatus{Status: StatusHealthy}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.db.PingContext(pingCtx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, err.Error())
	}

	stats := m.db.Stats()
	status.ResponseTime = time.Since(start)
	status.OpenConns = stats.OpenConnections
	status.InUse = stats.InUse
	status.Idle = stats.Idle

	return status
}

// Metrics returns a snapshot of collected query metrics
func (m *Manager) Metrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}

// AvgQueryDuration returns the mean query duration
func (m *Manager) AvgQueryDuration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metrics.QueryCount == 0 {
		return 0
	}
	return m.metrics.TotalDuration / time.Duration(m.metrics.QueryCount)
}

// DB exposes the underlying pool for advanced callers
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Close shuts down the pool
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection pool")
	return m.db.Close()
}

func truncateQuery(query string) string {
	const maxLength = 200
	if len(query) <= maxLength {
		return query
	}
	return query[:maxLength] + "..."
}

// internal/adapters/db/sqlite.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Config holds database configuration
type Config struct {
	Path               string
	BusyTimeout        time.Duration
	JournalMode        string
	EnableQueryLogging bool
}

// DefaultConfig returns default database configuration
func DefaultConfig() *Config {
	return &Config{
		Path:               "partsdesk.db",
		BusyTimeout:        5 * time.Second,
		JournalMode:        "WAL",
		EnableQueryLogging: false,
	}
}

// DSN builds the modernc.org/sqlite connection string with the pragmas every
// connection needs.
func (c *Config) DSN() string {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout.Milliseconds()))
	params.Add("_pragma", "foreign_keys(1)")
	if c.JournalMode != "" {
		params.Add("_pragma", fmt.Sprintf("journal_mode(%s)", c.JournalMode))
	}
	params.Set("_txlock", "immediate")
	return "file:" + c.Path + "?" + params.Encode()
}

// Database wraps the single-writer SQLite handle
type Database struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// NewDatabase opens the database file, creating its directory if needed
func NewDatabase(ctx context.Context, config *Config, logger *slog.Logger) (*Database, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if dir := filepath.Dir(config.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection keeps transactions from
	// contending with each other inside the process.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := WrapDB(sqlDB, config, logger)

	logger.Info("database opened",
		slog.String("path", config.Path),
		slog.String("journal_mode", config.JournalMode),
	)

	return db, nil
}

// WrapDB adopts an already opened handle. Tests use it with go-sqlmock.
func WrapDB(sqlDB *sql.DB, config *Config, logger *slog.Logger) *Database {
	if config == nil {
		config = DefaultConfig()
	}
	return &Database{
		db:     sqlDB,
		config: config,
		logger: logger,
	}
}

// DB returns the underlying *sql.DB
func (d *Database) DB() *sql.DB {
	return d.db
}

// Close closes the database handle
func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	d.logger.Info("database closed")
	return nil
}

// Health returns database health information
func (d *Database) Health(ctx context.Context) map[string]interface{} {
	stats := d.db.Stats()
	health := map[string]interface{}{
		"status":           "healthy",
		"path":             d.config.Path,
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration_ms": stats.WaitDuration.Milliseconds(),
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*2)
	defer cancel()

	var result int
	if err := d.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		return health
	}

	var pages int64
	if err := d.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pages); err == nil {
		health["page_count"] = pages
	}

	return health
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("begin", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx failed: %v, rollback failed: %w", err, mapError("rollback", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit", err)
	}

	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// loggingQuerier traces statements at debug level
type loggingQuerier struct {
	q      querier
	logger *slog.Logger
}

func newLoggingQuerier(q querier, logger *slog.Logger) *loggingQuerier {
	return &loggingQuerier{
		q:      q,
		logger: logger.With(slog.String("component", "sqlite")),
	}
}

func (l *loggingQuerier) trace(ctx context.Context, query string, args []interface{}, start time.Time) {
	l.logger.DebugContext(ctx, "query",
		slog.String("sql", query),
		slog.Int("args", len(args)),
		slog.Duration("duration_ms", time.Since(start)))
}

func (l *loggingQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer l.trace(ctx, query, args, time.Now())
	return l.q.ExecContext(ctx, query, args...)
}

func (l *loggingQuerier) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer l.trace(ctx, query, args, time.Now())
	return l.q.QueryContext(ctx, query, args...)
}

func (l *loggingQuerier) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer l.trace(ctx, query, args, time.Now())
	return l.q.QueryRowContext(ctx, query, args...)
}

// wrap applies query logging when enabled.
func (d *Database) wrap(q querier) querier {
	if d.config.EnableQueryLogging {
		return newLoggingQuerier(q, d.logger)
	}
	return q
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Options configures the database connection. The pool is deliberately small:
// the server is expected to run as a single short-lived or lightly loaded
// instance, and every request touches at most one row.
type Options struct {
	Driver          string // "postgres", "mysql", or "sqlite"
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultOptions returns Options suitable for local development: an
// in-memory SQLite database.
func DefaultOptions() Options {
	return Options{
		Driver:       "sqlite",
		DSN:          ":memory:?_journal_mode=WAL",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}
}

// Store persists contact submissions and admin accounts. It speaks three SQL
// dialects through sqlx; queries are written with ? bindvars and rebound per
// driver.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the configured database and applies migrations.
func Open(opts Options) (*Store, error) {
	driverName, err := sqlDriverName(opts.Driver)
	if err != nil {
		return nil, err
	}

	dsn := opts.DSN
	if opts.Driver == "sqlite" && dsn == "" {
		dsn = ":memory:?_journal_mode=WAL"
	}

	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	if opts.Driver == "sqlite" {
		// SQLite doesn't support concurrent writes.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	s := &Store{db: db, driver: opts.Driver}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// sqlDriverName maps the configured driver to the registered database/sql
// driver name.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	case "sqlite":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %q", driver)
	}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind translates ? bindvars to the driver's placeholder style.
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}

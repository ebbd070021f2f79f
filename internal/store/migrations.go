package store

import (
	"fmt"
	"strings"
)

// migrate applies the schema for the configured driver. Statements are
// idempotent so reopening an existing database is a no-op.
func (s *Store) migrate() error {
	var migrations []string
	switch s.driver {
	case "postgres":
		migrations = postgresMigrations
	case "mysql":
		migrations = mysqlMigrations
	default:
		migrations = sqliteMigrations
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// ADD COLUMN fails if the column already exists; treat
			// "duplicate column" as a no-op for idempotent migrations.
			if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
				continue
			}
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		is_read INTEGER NOT NULL DEFAULT 0,
		is_archived INTEGER NOT NULL DEFAULT 0,
		read_at DATETIME,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS admin_users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login DATETIME
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at
		ON contact_submissions(submitted_at)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_flags
		ON contact_submissions(is_read, is_archived)`,
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		submitted_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		read_at TIMESTAMPTZ,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS admin_users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login TIMESTAMPTZ
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at
		ON contact_submissions(submitted_at)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_flags
		ON contact_submissions(is_read, is_archived)`,
}

var mysqlMigrations = []string{
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(320) NOT NULL,
		message TEXT NOT NULL,
		ip_address VARCHAR(64),
		user_agent TEXT,
		submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		read_at DATETIME,
		notes TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_submissions_submitted_at (submitted_at),
		INDEX idx_submissions_flags (is_read, is_archived)
	)`,

	`CREATE TABLE IF NOT EXISTS admin_users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		email VARCHAR(320) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login DATETIME
	)`,
}

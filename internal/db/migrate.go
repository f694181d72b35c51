package db

import (
	"context"
	"fmt"
	"strings"
)

// Migrate applies the dialect's schema. Every statement is idempotent, so
// running it against an already-initialised database is a no-op.
func Migrate(ctx context.Context, d *DB) error {
	for i, stmt := range d.Dialect.Schema() {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			// MySQL has no CREATE INDEX IF NOT EXISTS.
			if strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// portableSchema works unchanged on SQLite and PostgreSQL. Dates are
// stored as YYYY-MM-DD text and timestamps as fixed-width UTC text so both
// sort lexically. kids_taught holds a JSON array.
var portableSchema = []string{
	`CREATE TABLE IF NOT EXISTS progress_entries (
		id             VARCHAR(36) PRIMARY KEY,
		date           VARCHAR(10) NOT NULL,
		day            VARCHAR(16) NOT NULL,
		volunteer_name VARCHAR(255) NOT NULL DEFAULT '',
		kids_taught    TEXT NOT NULL,
		class          VARCHAR(255) NOT NULL,
		topic_taught   TEXT NOT NULL,
		homework       TEXT NOT NULL,
		created_at     VARCHAR(32) NOT NULL,
		updated_at     VARCHAR(32) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_entries_date ON progress_entries(date, created_at)`,

	`CREATE TABLE IF NOT EXISTS kid_profiles (
		id         VARCHAR(36) PRIMARY KEY,
		name       VARCHAR(255) NOT NULL UNIQUE,
		classname  VARCHAR(255),
		school     VARCHAR(255),
		phone      VARCHAR(64),
		created_at VARCHAR(32) NOT NULL
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS progress_entries (
		id             VARCHAR(36) PRIMARY KEY,
		date           VARCHAR(10) NOT NULL,
		day            VARCHAR(16) NOT NULL,
		volunteer_name VARCHAR(255) NOT NULL DEFAULT '',
		kids_taught    TEXT NOT NULL,
		class          VARCHAR(255) NOT NULL,
		topic_taught   TEXT NOT NULL,
		homework       TEXT NOT NULL,
		created_at     VARCHAR(32) NOT NULL,
		updated_at     VARCHAR(32) NOT NULL,
		INDEX idx_progress_entries_date (date, created_at)
	)`,

	`CREATE TABLE IF NOT EXISTS kid_profiles (
		id         VARCHAR(36) PRIMARY KEY,
		name       VARCHAR(255) NOT NULL UNIQUE,
		classname  VARCHAR(255),
		school     VARCHAR(255),
		phone      VARCHAR(64),
		created_at VARCHAR(32) NOT NULL
	)`,
}

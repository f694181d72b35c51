package db

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the differences between the supported SQL backends.
// Repositories write queries with "?" placeholders; the dialect rewrites
// them when the driver expects something else.
type Dialect interface {
	// Name is the configuration name ("sqlite", "postgres", "mysql").
	Name() string
	// DriverName is the name registered with database/sql.
	DriverName() string
	// Rebind converts "?" placeholders to the driver's syntax.
	Rebind(query string) string
	// Schema returns idempotent DDL for the tables the tool owns.
	Schema() []string
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3", "":
		return SQLiteDialect{}, nil
	case "postgres", "postgresql":
		return PostgresDialect{}, nil
	case "mysql":
		return MySQLDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", name)
	}
}

// SQLiteDialect targets modernc.org/sqlite.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string               { return "sqlite" }
func (SQLiteDialect) DriverName() string         { return "sqlite" }
func (SQLiteDialect) Rebind(query string) string { return query }
func (SQLiteDialect) Schema() []string           { return portableSchema }

// PostgresDialect targets lib/pq.
type PostgresDialect struct{}

func (PostgresDialect) Name() string               { return "postgres" }
func (PostgresDialect) DriverName() string         { return "postgres" }
func (PostgresDialect) Rebind(query string) string { return rebindNumbered(query) }
func (PostgresDialect) Schema() []string           { return portableSchema }

// MySQLDialect targets go-sql-driver/mysql.
type MySQLDialect struct{}

func (MySQLDialect) Name() string               { return "mysql" }
func (MySQLDialect) DriverName() string         { return "mysql" }
func (MySQLDialect) Rebind(query string) string { return query }
func (MySQLDialect) Schema() []string           { return mysqlSchema }

// rebindNumbered converts ? placeholders to $1, $2, ... skipping any that
// appear inside single-quoted literals.
func rebindNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

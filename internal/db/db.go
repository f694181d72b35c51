package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB is a connection pool paired with the dialect it speaks.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Options selects the backend. Path is used by SQLite, URL by the hosted
// backends.
type Options struct {
	Driver string
	Path   string
	URL    string
}

// Open connects to the configured backend and runs migrations.
func Open(ctx context.Context, opts Options) (*DB, error) {
	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}
	if dialect.Name() == "sqlite" {
		return OpenDB(opts.Path)
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("%s requires a connection URL", dialect.Name())
	}

	conn, err := sql.Open(dialect.DriverName(), opts.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to %s: %w", dialect.Name(), err)
	}

	d := &DB{DB: conn, Dialect: dialect}
	if err := Migrate(ctx, d); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database.
// Sets WAL mode and enables foreign keys.
// Runs migrations automatically.
func OpenDB(path string) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Every new connection to :memory: is a fresh, empty database.
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	d := &DB{DB: conn, Dialect: SQLiteDialect{}}
	if err := Migrate(context.Background(), d); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return d, nil
}

// Conn returns the pool as a DBTX that rewrites placeholders for the
// dialect.
func (d *DB) Conn() DBTX {
	return Bind(d.Dialect, d.DB)
}

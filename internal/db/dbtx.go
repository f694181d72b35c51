package db

import (
	"context"
	"database/sql"
)

// DBTX is the common interface satisfied by both *sql.DB and *sql.Tx.
// Repository implementations depend on this interface instead of the
// concrete *sql.DB, enabling transactional composition.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
	_ DBTX = (*boundDBTX)(nil)
)

// Bind wraps conn so queries written with "?" placeholders are rebound for
// the dialect before reaching the driver.
func Bind(d Dialect, conn DBTX) DBTX {
	if b, ok := conn.(*boundDBTX); ok && b.dialect.Name() == d.Name() {
		return b
	}
	return &boundDBTX{dialect: d, conn: conn}
}

type boundDBTX struct {
	dialect Dialect
	conn    DBTX
}

func (b *boundDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return b.conn.ExecContext(ctx, b.dialect.Rebind(query), args...)
}

func (b *boundDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return b.conn.QueryContext(ctx, b.dialect.Rebind(query), args...)
}

func (b *boundDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return b.conn.QueryRowContext(ctx, b.dialect.Rebind(query), args...)
}

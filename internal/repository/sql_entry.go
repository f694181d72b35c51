package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/db"
	"github.com/alexanderramin/tutorlog/internal/domain"
)

const entryOrder = `ORDER BY date DESC, created_at DESC, id DESC`

// SQLEntryRepo implements EntryRepo over any supported SQL backend.
type SQLEntryRepo struct {
	db db.DBTX
}

// NewSQLEntryRepo creates a new SQLEntryRepo. conn must already be bound to
// its dialect (see db.Bind).
func NewSQLEntryRepo(conn db.DBTX) *SQLEntryRepo {
	return &SQLEntryRepo{db: conn}
}

func (r *SQLEntryRepo) Create(ctx context.Context, e *domain.ProgressEntry) error {
	row, err := toEntryRow(e)
	if err != nil {
		return err
	}
	query := `INSERT INTO progress_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, row.values()...); err != nil {
		return fmt.Errorf("inserting progress entry: %w", err)
	}
	return nil
}

func (r *SQLEntryRepo) GetByID(ctx context.Context, id string) (*domain.ProgressEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM progress_entries WHERE id = ?`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLEntryRepo) ListRecent(ctx context.Context, limit int) ([]*domain.ProgressEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM progress_entries ` + entryOrder + ` LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent entries: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLEntryRepo) ListAll(ctx context.Context) ([]*domain.ProgressEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM progress_entries ` + entryOrder
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLEntryRepo) Update(ctx context.Context, id string, patch domain.EntryPatch, now time.Time) (*domain.ProgressEntry, error) {
	assigns, err := patchAssignments(patch, now)
	if err != nil {
		return nil, err
	}
	sets := make([]string, 0, len(assigns))
	args := make([]any, 0, len(assigns)+1)
	for _, a := range assigns {
		sets = append(sets, a.Column+" = ?")
		args = append(args, a.Value)
	}
	args = append(args, id)

	query := `UPDATE progress_entries SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("updating progress entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("progress entry %s: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete removes the entry with id. A missing id is not an error.
func (r *SQLEntryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting progress entry: %w", err)
	}
	return nil
}

func (r *SQLEntryRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM progress_entries WHERE date < ?`, domain.FormatDate(cutoff))
	if err != nil {
		return 0, fmt.Errorf("deleting entries before %s: %w", domain.FormatDate(cutoff), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n, nil
}

func (r *SQLEntryRepo) scanEntry(row *sql.Row) (*domain.ProgressEntry, error) {
	var er entryRow
	if err := row.Scan(er.scanTargets()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("progress entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning progress entry: %w", err)
	}
	return fromEntryRow(er)
}

func (r *SQLEntryRepo) scanEntries(rows *sql.Rows) ([]*domain.ProgressEntry, error) {
	var entries []*domain.ProgressEntry
	for rows.Next() {
		var er entryRow
		if err := rows.Scan(er.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scanning progress entry row: %w", err)
		}
		e, err := fromEntryRow(er)
		if err != nil {
			return nil, fmt.Errorf("progress entry %s: %w", er.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress entries: %w", err)
	}
	return entries, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tutorlog/internal/db"
	"github.com/alexanderramin/tutorlog/internal/domain"
)

const profileColumns = `id, name, classname, school, phone, created_at`

// SQLKidProfileRepo implements KidProfileRepo over any supported SQL backend.
type SQLKidProfileRepo struct {
	db db.DBTX
}

// NewSQLKidProfileRepo creates a new SQLKidProfileRepo.
func NewSQLKidProfileRepo(conn db.DBTX) *SQLKidProfileRepo {
	return &SQLKidProfileRepo{db: conn}
}

func (r *SQLKidProfileRepo) List(ctx context.Context) ([]*domain.KidProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM kid_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing kid profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.KidProfile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating kid profiles: %w", err)
	}
	return profiles, nil
}

func (r *SQLKidProfileRepo) GetByName(ctx context.Context, name string) (*domain.KidProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM kid_profiles WHERE name = ?`, name)
	p, err := r.scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("kid profile %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLKidProfileRepo) Create(ctx context.Context, p *domain.KidProfile) error {
	query := `INSERT INTO kid_profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		nullableString(p.ClassName),
		nullableString(p.School),
		nullableString(p.Phone),
		formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting kid profile: %w", err)
	}
	return nil
}

func (r *SQLKidProfileRepo) Update(ctx context.Context, p *domain.KidProfile) error {
	query := `UPDATE kid_profiles SET name = ?, classname = ?, school = ?, phone = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		nullableString(p.ClassName),
		nullableString(p.School),
		nullableString(p.Phone),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating kid profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("kid profile %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLKidProfileRepo) scanProfile(s scanner) (*domain.KidProfile, error) {
	var (
		p                        domain.KidProfile
		className, school, phone sql.NullString
		createdAt                string
	)
	if err := s.Scan(&p.ID, &p.Name, &className, &school, &phone, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning kid profile: %w", err)
	}
	p.ClassName = stringOrEmpty(className)
	p.School = stringOrEmpty(school)
	p.Phone = stringOrEmpty(phone)
	created, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	p.CreatedAt = created
	return &p, nil
}

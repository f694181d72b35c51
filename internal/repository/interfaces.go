package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// ErrNotFound is returned when a lookup or update targets a missing row.
var ErrNotFound = domain.ErrNotFound

// EntryRepo is the remote progress_entries table.
type EntryRepo interface {
	Create(ctx context.Context, e *domain.ProgressEntry) error
	GetByID(ctx context.Context, id string) (*domain.ProgressEntry, error)
	// ListRecent orders by date desc, then created_at desc.
	ListRecent(ctx context.Context, limit int) ([]*domain.ProgressEntry, error)
	ListAll(ctx context.Context) ([]*domain.ProgressEntry, error)
	Update(ctx context.Context, id string, patch domain.EntryPatch, now time.Time) (*domain.ProgressEntry, error)
	Delete(ctx context.Context, id string) error
	// DeleteBefore removes entries dated strictly before cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// KidProfileRepo is the remote kid_profiles table.
type KidProfileRepo interface {
	List(ctx context.Context) ([]*domain.KidProfile, error)
	GetByName(ctx context.Context, name string) (*domain.KidProfile, error)
	Create(ctx context.Context, p *domain.KidProfile) error
	Update(ctx context.Context, p *domain.KidProfile) error
}

package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// EntryService is the entry store as seen by the CLI and HTTP layers.
type EntryService interface {
	Fetch(ctx context.Context, limit int) error
	Add(ctx context.Context, e *domain.ProgressEntry) (*domain.ProgressEntry, error)
	Update(ctx context.Context, id string, patch domain.EntryPatch) (*domain.ProgressEntry, error)
	Delete(ctx context.Context, id string) error
	ClearBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Submit(ctx context.Context, sub domain.Submission) ([]*domain.ProgressEntry, error)
	Entries() []*domain.ProgressEntry
	Get(ctx context.Context, id string) (*domain.ProgressEntry, error)
	Err() error
	Limit() int
	KnownStudents() []string
	KnownVolunteers() []string
}

// ProfileDirectory lists and saves kid profiles.
type ProfileDirectory interface {
	List(ctx context.Context) ([]*domain.KidProfile, error)
	Save(ctx context.Context, p *domain.KidProfile) (*domain.KidProfile, error)
}

var (
	_ EntryService     = (*EntryStore)(nil)
	_ ProfileDirectory = (*profileService)(nil)
)

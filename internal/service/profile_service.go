package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/repository"
	"github.com/google/uuid"
)

// EntrySource supplies every stored entry, so students whose sessions are
// older than the store's cached window still appear in the directory.
type EntrySource interface {
	ListAll(ctx context.Context) ([]*domain.ProgressEntry, error)
}

type profileService struct {
	profiles repository.KidProfileRepo
	entries  EntrySource
	observer UseCaseObserver
}

// NewProfileService creates the kid profile directory. Students seen in
// entries but never saved are listed as placeholders.
func NewProfileService(profiles repository.KidProfileRepo, entries EntrySource, observers ...UseCaseObserver) ProfileDirectory {
	return &profileService{
		profiles: profiles,
		entries:  entries,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *profileService) List(ctx context.Context) (list []*domain.KidProfile, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "list-profiles", startedAt, fields, &err)

	saved, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		return nil, &domain.LoadError{Op: "list-profiles", Err: err}
	}

	byKey := make(map[string]*domain.KidProfile, len(saved))
	for _, p := range saved {
		byKey[domain.NameKey(p.Name)] = p
		list = append(list, p)
	}

	for _, e := range entries {
		for _, kid := range e.KidsTaught {
			key := domain.NameKey(kid)
			if key == "" {
				continue
			}
			p, ok := byKey[key]
			if !ok {
				p = &domain.KidProfile{Name: strings.TrimSpace(kid)}
				byKey[key] = p
				list = append(list, p)
			}
			if p.ClassName == "" && e.Class != "" {
				p.ClassName = e.Class
			}
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		return domain.NameKey(list[i].Name) < domain.NameKey(list[j].Name)
	})
	fields["count"] = len(list)
	return list, nil
}

// Save updates the profile when it has an ID and inserts it otherwise.
func (s *profileService) Save(ctx context.Context, p *domain.KidProfile) (saved *domain.KidProfile, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "save-profile", startedAt, map[string]any{"name": p.Name}, &err)

	out := *p
	out.Name = strings.TrimSpace(out.Name)
	out.ClassName = strings.TrimSpace(out.ClassName)
	out.School = strings.TrimSpace(out.School)
	out.Phone = strings.TrimSpace(out.Phone)
	if out.Name == "" {
		return nil, &domain.ValidationError{Problems: []domain.FieldProblem{
			{Field: "name", Message: "this field is required"},
		}}
	}

	if !out.IsPlaceholder() {
		if err := s.profiles.Update(ctx, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	out.ID = uuid.New().String()
	out.CreatedAt = time.Now().UTC()
	if err := s.profiles.Create(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

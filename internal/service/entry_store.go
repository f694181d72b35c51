package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/tutorlog/internal/db"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/repository"
	"github.com/google/uuid"
)

// DefaultFetchLimit is how many recent entries Fetch loads when no limit is
// given.
const DefaultFetchLimit = 100

// SectionError names the section of a submission that could not be written.
// Index is zero-based within Submission.Sections.
type SectionError struct {
	Index int
	Err   error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %d: %v", e.Index+1, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

// EntryStore keeps the most recent entries in memory and is the only writer
// to the progress_entries table. Remote calls run outside the lock; the cache
// is only touched after a call succeeds, and not at all once the store is
// closed.
type EntryStore struct {
	entries      repository.EntryRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
	defaultLimit int
	now          func() time.Time

	mu      sync.RWMutex
	cache   []*domain.ProgressEntry
	limit   int
	lastErr error
	closed  bool
}

// NewEntryStore creates a store over entries. uow scopes multi-section
// submissions to one transaction. defaultLimit <= 0 means DefaultFetchLimit.
func NewEntryStore(entries repository.EntryRepo, uow db.UnitOfWork, defaultLimit int, observers ...UseCaseObserver) *EntryStore {
	if defaultLimit <= 0 {
		defaultLimit = DefaultFetchLimit
	}
	return &EntryStore{
		entries:      entries,
		uow:          uow,
		observer:     useCaseObserverOrNoop(observers),
		defaultLimit: defaultLimit,
		now:          func() time.Time { return time.Now().UTC() },
		limit:        defaultLimit,
	}
}

// Fetch replaces the cache with the limit most recent entries. On failure
// the cache is kept and Err reports the failure until a fetch succeeds.
func (s *EntryStore) Fetch(ctx context.Context, limit int) (err error) {
	startedAt := time.Now().UTC()
	if limit <= 0 {
		limit = s.defaultLimit
	}
	fields := map[string]any{"limit": limit}
	defer observe(ctx, s.observer, "fetch-entries", startedAt, fields, &err)

	list, rerr := s.entries.ListRecent(ctx, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if rerr != nil {
		err = &domain.LoadError{Op: "fetch", Err: rerr}
		if !s.closed {
			s.lastErr = err
		}
		return err
	}
	if s.closed {
		return nil
	}
	s.cache = list
	s.limit = limit
	s.lastErr = nil
	fields["count"] = len(list)
	return nil
}

// Add validates e, inserts it and puts it at the front of the cache.
func (s *EntryStore) Add(ctx context.Context, e *domain.ProgressEntry) (added *domain.ProgressEntry, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "add-entry", startedAt, fields, &err)

	if err = domain.ValidateNewEntry(e); err != nil {
		return nil, err
	}

	entry := e.Clone()
	s.canonicalize(entry)
	now := s.now()
	entry.ID = uuid.New().String()
	entry.Date = domain.CivilDate(entry.Date)
	entry.CreatedAt = now
	entry.UpdatedAt = now
	fields["entry_id"] = entry.ID

	if cerr := s.entries.Create(ctx, entry); cerr != nil {
		return nil, &domain.WriteError{Op: "add", Err: cerr}
	}

	s.mu.Lock()
	if !s.closed {
		s.cache = prepend(s.cache, s.limit, entry.Clone())
	}
	s.mu.Unlock()
	return entry, nil
}

// Update applies patch to the entry with id and replaces the cached copy.
func (s *EntryStore) Update(ctx context.Context, id string, patch domain.EntryPatch) (updated *domain.ProgressEntry, err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "update-entry", startedAt, map[string]any{"entry_id": id}, &err)

	if err = domain.ValidatePatch(patch); err != nil {
		return nil, err
	}
	patch = s.normalizePatch(patch)

	updated, uerr := s.entries.Update(ctx, id, patch, s.now())
	if uerr != nil {
		return nil, &domain.WriteError{Op: "update", ID: id, Err: uerr}
	}

	s.mu.Lock()
	if !s.closed {
		for i, c := range s.cache {
			if c.ID == id {
				s.cache[i] = updated.Clone()
				break
			}
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the entry with id. An id that does not exist is not an
// error.
func (s *EntryStore) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer observe(ctx, s.observer, "delete-entry", startedAt, map[string]any{"entry_id": id}, &err)

	if derr := s.entries.Delete(ctx, id); derr != nil {
		return &domain.WriteError{Op: "delete", ID: id, Err: derr}
	}

	s.mu.Lock()
	if !s.closed {
		s.cache = removeWhere(s.cache, func(e *domain.ProgressEntry) bool { return e.ID == id })
	}
	s.mu.Unlock()
	return nil
}

// ClearBefore deletes every entry dated strictly before cutoff; entries on
// the cutoff day are kept. It does not ask for confirmation.
func (s *EntryStore) ClearBefore(ctx context.Context, cutoff time.Time) (removed int64, err error) {
	startedAt := time.Now().UTC()
	cutoff = domain.CivilDate(cutoff)
	fields := map[string]any{"cutoff": domain.FormatDate(cutoff)}
	defer observe(ctx, s.observer, "clear-entries", startedAt, fields, &err)

	removed, derr := s.entries.DeleteBefore(ctx, cutoff)
	if derr != nil {
		return 0, &domain.WriteError{Op: "clear", Err: derr}
	}
	fields["removed"] = removed

	s.mu.Lock()
	if !s.closed {
		s.cache = removeWhere(s.cache, func(e *domain.ProgressEntry) bool { return e.Date.Before(cutoff) })
	}
	s.mu.Unlock()
	return removed, nil
}

// Submit writes every filled section of sub as its own entry, all in one
// transaction. Kid and volunteer names are folded onto the casing already
// known to the store. If any section fails nothing is written and the
// returned WriteError wraps a *SectionError.
func (s *EntryStore) Submit(ctx context.Context, sub domain.Submission) (created []*domain.ProgressEntry, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"sections": len(sub.Sections)}
	defer observe(ctx, s.observer, "submit-entries", startedAt, fields, &err)

	if err = domain.ValidateSubmission(sub); err != nil {
		return nil, err
	}

	kids := domain.NewCanonicalizer(s.KnownStudents()...)
	volunteers := domain.NewCanonicalizer(s.KnownVolunteers()...)
	volunteer := volunteers.Add(sub.VolunteerName)
	now := s.now()

	var indexes []int
	for i, sec := range sub.Sections {
		if sec.IsBlank() {
			continue
		}
		indexes = append(indexes, i)
	}
	created = sub.Entries()
	for i, e := range created {
		e.ID = uuid.New().String()
		e.VolunteerName = volunteer
		e.KidsTaught = canonicalKids(kids, e.KidsTaught)
		// Later sections sort ahead of earlier ones, matching list order.
		e.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		e.UpdatedAt = e.CreatedAt
	}

	txErr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLEntryRepo(tx)
		for i, e := range created {
			if err := txEntries.Create(ctx, e); err != nil {
				return &SectionError{Index: indexes[i], Err: err}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, &domain.WriteError{Op: "submit", Err: txErr}
	}
	fields["created"] = len(created)

	s.mu.Lock()
	if !s.closed {
		for _, e := range created {
			s.cache = prepend(s.cache, s.limit, e.Clone())
		}
	}
	s.mu.Unlock()
	return created, nil
}

// Entries returns a copy of the cached entries, newest first.
func (s *EntryStore) Entries() []*domain.ProgressEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ProgressEntry, len(s.cache))
	for i, e := range s.cache {
		out[i] = e.Clone()
	}
	return out
}

// Get returns the entry with id from the cache, or from the remote table
// when it is older than the cached window. A missing entry is a LoadError
// wrapping domain.ErrNotFound.
func (s *EntryStore) Get(ctx context.Context, id string) (*domain.ProgressEntry, error) {
	s.mu.RLock()
	for _, e := range s.cache {
		if e.ID == id {
			s.mu.RUnlock()
			return e.Clone(), nil
		}
	}
	s.mu.RUnlock()

	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, &domain.LoadError{Op: "get", Err: err}
	}
	return e, nil
}

// Err is the error from the last failed Fetch, cleared by a successful one.
func (s *EntryStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Limit is the cache size set by the last successful Fetch.
func (s *EntryStore) Limit() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limit
}

// KnownStudents lists cached student names in canonical casing.
func (s *EntryStore) KnownStudents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := domain.NewCanonicalizer()
	for _, e := range s.cache {
		for _, k := range e.KidsTaught {
			c.Add(k)
		}
	}
	return c.Names()
}

// KnownVolunteers lists cached volunteer names in canonical casing.
func (s *EntryStore) KnownVolunteers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := domain.NewCanonicalizer()
	for _, e := range s.cache {
		c.Add(e.VolunteerName)
	}
	return c.Names()
}

// Close detaches the store. Calls still in flight complete against the
// table, but their results no longer reach the cache.
func (s *EntryStore) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *EntryStore) canonicalize(e *domain.ProgressEntry) {
	kids := domain.NewCanonicalizer(s.KnownStudents()...)
	e.KidsTaught = canonicalKids(kids, e.KidsTaught)
	e.VolunteerName = domain.Normalize(e.VolunteerName, s.KnownVolunteers())
	e.Class = strings.TrimSpace(e.Class)
	e.TopicTaught = strings.TrimSpace(e.TopicTaught)
}

func (s *EntryStore) normalizePatch(p domain.EntryPatch) domain.EntryPatch {
	if p.Date != nil {
		d := domain.CivilDate(*p.Date)
		p.Date = &d
	}
	if p.VolunteerName != nil {
		p.VolunteerName = domain.StrPtr(domain.Normalize(*p.VolunteerName, s.KnownVolunteers()))
	}
	if p.KidsTaught != nil {
		p.KidsTaught = canonicalKids(domain.NewCanonicalizer(s.KnownStudents()...), p.KidsTaught)
	}
	if p.Class != nil {
		p.Class = domain.StrPtr(strings.TrimSpace(*p.Class))
	}
	if p.TopicTaught != nil {
		p.TopicTaught = domain.StrPtr(strings.TrimSpace(*p.TopicTaught))
	}
	return p
}

// canonicalKids resolves each name, drops blanks and collapses names that
// differ only in case. New names are recorded in c.
func canonicalKids(c *domain.Canonicalizer, kids []string) []string {
	out := make([]string, 0, len(kids))
	seen := make(map[string]bool, len(kids))
	for _, k := range kids {
		name := c.Add(k)
		if name == "" || seen[domain.NameKey(name)] {
			continue
		}
		seen[domain.NameKey(name)] = true
		out = append(out, name)
	}
	return out
}

func prepend(cache []*domain.ProgressEntry, limit int, e *domain.ProgressEntry) []*domain.ProgressEntry {
	out := make([]*domain.ProgressEntry, 0, len(cache)+1)
	out = append(out, e)
	out = append(out, cache...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func removeWhere(cache []*domain.ProgressEntry, drop func(*domain.ProgressEntry) bool) []*domain.ProgressEntry {
	out := cache[:0:0]
	for _, e := range cache {
		if !drop(e) {
			out = append(out, e)
		}
	}
	return out
}

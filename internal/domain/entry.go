package domain

import (
	"slices"
	"strings"
	"time"
)

// ProgressEntry is one logged tutoring session.
type ProgressEntry struct {
	ID            string
	Date          time.Time
	VolunteerName string
	KidsTaught    []string
	Class         string
	TopicTaught   string
	Homework      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Day is the weekday label of the entry's date. It is always derived, so a
// date edit can never leave a stale label behind.
func (e *ProgressEntry) Day() string {
	return WeekdayName(e.Date)
}

// HasStudent reports whether name is among the kids taught, ignoring case.
func (e *ProgressEntry) HasStudent(name string) bool {
	key := NameKey(name)
	if key == "" {
		return false
	}
	for _, kid := range e.KidsTaught {
		if NameKey(kid) == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so cached entries can be handed out safely.
func (e *ProgressEntry) Clone() *ProgressEntry {
	c := *e
	c.KidsTaught = slices.Clone(e.KidsTaught)
	return &c
}

// EntryPatch carries a partial update. Nil fields are left untouched.
type EntryPatch struct {
	Date          *time.Time
	VolunteerName *string
	KidsTaught    []string
	Class         *string
	TopicTaught   *string
	Homework      *string
}

// IsEmpty reports whether the patch would change nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Date == nil && p.VolunteerName == nil && p.KidsTaught == nil &&
		p.Class == nil && p.TopicTaught == nil && p.Homework == nil
}

// Apply merges the provided fields into e and stamps UpdatedAt.
func (p EntryPatch) Apply(e *ProgressEntry, now time.Time) {
	if p.Date != nil {
		e.Date = CivilDate(*p.Date)
	}
	if p.VolunteerName != nil {
		e.VolunteerName = strings.TrimSpace(*p.VolunteerName)
	}
	if p.KidsTaught != nil {
		e.KidsTaught = slices.Clone(p.KidsTaught)
	}
	if p.Class != nil {
		e.Class = strings.TrimSpace(*p.Class)
	}
	if p.TopicTaught != nil {
		e.TopicTaught = strings.TrimSpace(*p.TopicTaught)
	}
	if p.Homework != nil {
		e.Homework = *p.Homework
	}
	e.UpdatedAt = now
}

package testutil

import (
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/google/uuid"
)

// EntryOption customises a test entry.
type EntryOption func(*domain.ProgressEntry)

func WithDate(date string) EntryOption {
	return func(e *domain.ProgressEntry) {
		d, err := domain.ParseDate(date)
		if err != nil {
			panic(err)
		}
		e.Date = d
	}
}

func WithVolunteer(name string) EntryOption {
	return func(e *domain.ProgressEntry) {
		e.VolunteerName = name
	}
}

func WithKids(kids ...string) EntryOption {
	return func(e *domain.ProgressEntry) {
		e.KidsTaught = kids
	}
}

func WithClass(class string) EntryOption {
	return func(e *domain.ProgressEntry) {
		e.Class = class
	}
}

func WithTopic(topic string) EntryOption {
	return func(e *domain.ProgressEntry) {
		e.TopicTaught = topic
	}
}

func WithHomework(hw string) EntryOption {
	return func(e *domain.ProgressEntry) {
		e.Homework = hw
	}
}

func WithCreatedAt(t time.Time) EntryOption {
	return func(e *domain.ProgressEntry) {
		e.CreatedAt = t
		e.UpdatedAt = t
	}
}

// NewTestEntry builds a valid entry dated 2024-06-10 for a single student.
func NewTestEntry(opts ...EntryOption) *domain.ProgressEntry {
	now := time.Now().UTC()
	e := &domain.ProgressEntry{
		ID:            uuid.New().String(),
		Date:          time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		VolunteerName: "Volunteer",
		KidsTaught:    []string{"Student"},
		Class:         "Math",
		TopicTaught:   "Fractions",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProfileOption customises a test profile.
type ProfileOption func(*domain.KidProfile)

func WithProfileClass(class string) ProfileOption {
	return func(p *domain.KidProfile) {
		p.ClassName = class
	}
}

func WithSchool(school string) ProfileOption {
	return func(p *domain.KidProfile) {
		p.School = school
	}
}

func WithPhone(phone string) ProfileOption {
	return func(p *domain.KidProfile) {
		p.Phone = phone
	}
}

func NewTestProfile(name string, opts ...ProfileOption) *domain.KidProfile {
	p := &domain.KidProfile{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

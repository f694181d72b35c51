package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

const entryColumns = `id, date, day, volunteer_name, kids_taught, class, topic_taught, homework, created_at, updated_at`

// entryRow mirrors a progress_entries row: snake_case columns, text values.
type entryRow struct {
	ID            string
	Date          string
	Day           string
	VolunteerName string
	KidsTaught    string
	Class         string
	TopicTaught   string
	Homework      string
	CreatedAt     string
	UpdatedAt     string
}

func (r *entryRow) scanTargets() []any {
	return []any{
		&r.ID, &r.Date, &r.Day, &r.VolunteerName, &r.KidsTaught,
		&r.Class, &r.TopicTaught, &r.Homework, &r.CreatedAt, &r.UpdatedAt,
	}
}

func (r *entryRow) values() []any {
	return []any{
		r.ID, r.Date, r.Day, r.VolunteerName, r.KidsTaught,
		r.Class, r.TopicTaught, r.Homework, r.CreatedAt, r.UpdatedAt,
	}
}

// toEntryRow maps an entry to its persisted form. The day column is always
// recomputed from the date.
func toEntryRow(e *domain.ProgressEntry) (entryRow, error) {
	kids, err := encodeKids(e.KidsTaught)
	if err != nil {
		return entryRow{}, err
	}
	return entryRow{
		ID:            e.ID,
		Date:          domain.FormatDate(e.Date),
		Day:           e.Day(),
		VolunteerName: e.VolunteerName,
		KidsTaught:    kids,
		Class:         e.Class,
		TopicTaught:   e.TopicTaught,
		Homework:      e.Homework,
		CreatedAt:     formatTimestamp(e.CreatedAt),
		UpdatedAt:     formatTimestamp(e.UpdatedAt),
	}, nil
}

// fromEntryRow maps a persisted row back to an entry. The stored day label
// is ignored in favour of the one derived from date.
func fromEntryRow(r entryRow) (*domain.ProgressEntry, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	var kids []string
	if r.KidsTaught != "" {
		if err := json.Unmarshal([]byte(r.KidsTaught), &kids); err != nil {
			return nil, fmt.Errorf("parsing kids_taught: %w", err)
		}
	}
	if kids == nil {
		kids = []string{}
	}
	e := &domain.ProgressEntry{
		ID:            r.ID,
		Date:          date,
		VolunteerName: r.VolunteerName,
		KidsTaught:    kids,
		Class:         r.Class,
		TopicTaught:   r.TopicTaught,
		Homework:      r.Homework,
	}
	if e.CreatedAt, err = parseTimestamp(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if e.UpdatedAt, err = parseTimestamp(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return e, nil
}

// assignment is one "column = ?" pair of an UPDATE statement.
type assignment struct {
	Column string
	Value  any
}

// patchAssignments maps the fields present in a patch to column
// assignments. A date change always rewrites day as well.
func patchAssignments(p domain.EntryPatch, now time.Time) ([]assignment, error) {
	var out []assignment
	if p.Date != nil {
		d := domain.CivilDate(*p.Date)
		out = append(out,
			assignment{Column: "date", Value: domain.FormatDate(d)},
			assignment{Column: "day", Value: domain.WeekdayName(d)},
		)
	}
	if p.VolunteerName != nil {
		out = append(out, assignment{Column: "volunteer_name", Value: *p.VolunteerName})
	}
	if p.KidsTaught != nil {
		kids, err := encodeKids(p.KidsTaught)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{Column: "kids_taught", Value: kids})
	}
	if p.Class != nil {
		out = append(out, assignment{Column: "class", Value: *p.Class})
	}
	if p.TopicTaught != nil {
		out = append(out, assignment{Column: "topic_taught", Value: *p.TopicTaught})
	}
	if p.Homework != nil {
		out = append(out, assignment{Column: "homework", Value: *p.Homework})
	}
	out = append(out, assignment{Column: "updated_at", Value: formatTimestamp(now)})
	return out, nil
}

func encodeKids(kids []string) (string, error) {
	if kids == nil {
		kids = []string{}
	}
	b, err := json.Marshal(kids)
	if err != nil {
		return "", fmt.Errorf("encoding kids_taught: %w", err)
	}
	return string(b), nil
}

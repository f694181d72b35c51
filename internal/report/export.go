package report

import (
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// ExportHeader names the exported columns.
var ExportHeader = []string{
	"Student Name", "Date", "Day", "Volunteer Name", "Class", "Topic Taught", "Homework",
}

// ExportOptions controls ToDelimitedText.
type ExportOptions struct {
	// Delimiter separates fields. Empty means ",".
	Delimiter string
	// Student restricts output to one student, matched exactly.
	Student string
}

// ToDelimitedText renders one row per (entry, student) pair, grouped by
// student in first-seen order and dated ascending within each group. Every
// field is double-quoted with embedded quotes doubled.
func ToDelimitedText(entries []*domain.ProgressEntry, opts ExportOptions) string {
	delim := opts.Delimiter
	if delim == "" {
		delim = ","
	}

	var order []string
	groups := make(map[string][]*domain.ProgressEntry)
	for _, e := range entries {
		for _, kid := range e.KidsTaught {
			if opts.Student != "" && kid != opts.Student {
				continue
			}
			if _, ok := groups[kid]; !ok {
				order = append(order, kid)
			}
			groups[kid] = append(groups[kid], e)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(ExportHeader, delim))
	b.WriteByte('\n')
	for _, student := range order {
		rows := groups[student]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Date.Before(rows[j].Date)
		})
		for _, e := range rows {
			writeRow(&b, delim,
				student,
				domain.FormatDate(e.Date),
				e.Day(),
				e.VolunteerName,
				e.Class,
				e.TopicTaught,
				e.Homework,
			)
		}
	}
	return b.String()
}

func writeRow(b *strings.Builder, delim string, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteString(delim)
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// PeriodKind is the width of an export window.
type PeriodKind string

const (
	Daily   PeriodKind = "daily"
	Monthly PeriodKind = "monthly"
)

// Period is an inclusive window of calendar days.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

// DailyPeriod is the single day containing t.
func DailyPeriod(t time.Time) Period {
	d := domain.CivilDate(t)
	return Period{Kind: Daily, Start: d, End: d}
}

// MonthlyPeriod is the calendar month containing t.
func MonthlyPeriod(t time.Time) Period {
	d := domain.CivilDate(t)
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: Monthly, Start: start, End: start.AddDate(0, 1, -1)}
}

// Contains reports whether date falls within the period.
func (p Period) Contains(date time.Time) bool {
	d := domain.CivilDate(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Label is YYYY-MM-DD for a day and YYYY-MM for a month.
func (p Period) Label() string {
	if p.Kind == Monthly {
		return p.Start.Format("2006-01")
	}
	return domain.FormatDate(p.Start)
}

// EntriesInPeriod keeps the entries dated within p, in input order.
func EntriesInPeriod(entries []*domain.ProgressEntry, p Period) []*domain.ProgressEntry {
	out := make([]*domain.ProgressEntry, 0, len(entries))
	for _, e := range entries {
		if p.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// ExportFilename names the download: progress_entries_<label>.csv, or
// <Student_Name>_progress_<label>.csv for a single student.
func ExportFilename(student string, p Period) string {
	student = strings.TrimSpace(student)
	if student == "" {
		return "progress_entries_" + p.Label() + ".csv"
	}
	return strings.Join(strings.Fields(student), "_") + "_progress_" + p.Label() + ".csv"
}

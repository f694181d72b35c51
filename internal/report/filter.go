package report

import (
	"sort"
	"strings"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// FilterEntries returns the entries matching every non-empty filter field,
// in input order. The input slice is not modified.
//
// Student matches any kid name containing the term, ignoring case. Class is
// an exact match. Volunteer matches the whole name, ignoring case.
func FilterEntries(entries []*domain.ProgressEntry, f domain.SearchFilters) []*domain.ProgressEntry {
	student := strings.ToLower(strings.TrimSpace(f.StudentName))
	volunteer := domain.NameKey(f.VolunteerName)

	out := make([]*domain.ProgressEntry, 0, len(entries))
	for _, e := range entries {
		if student != "" && !anyKidContains(e.KidsTaught, student) {
			continue
		}
		if f.ClassName != "" && e.Class != f.ClassName {
			continue
		}
		if volunteer != "" && domain.NameKey(e.VolunteerName) != volunteer {
			continue
		}
		out = append(out, e)
	}
	return out
}

func anyKidContains(kids []string, term string) bool {
	for _, k := range kids {
		if strings.Contains(strings.ToLower(k), term) {
			return true
		}
	}
	return false
}

// Students lists every distinct student name, sorted.
func Students(entries []*domain.ProgressEntry) []string {
	set := make(map[string]struct{})
	for _, e := range entries {
		for _, k := range e.KidsTaught {
			if k = strings.TrimSpace(k); k != "" {
				set[k] = struct{}{}
			}
		}
	}
	return sortedKeys(set)
}

// Classes lists every distinct non-empty class, sorted.
func Classes(entries []*domain.ProgressEntry) []string {
	set := make(map[string]struct{})
	for _, e := range entries {
		if e.Class != "" {
			set[e.Class] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Volunteers lists every distinct volunteer in canonical casing, sorted.
func Volunteers(entries []*domain.ProgressEntry) []string {
	canon := domain.NewCanonicalizer()
	for _, e := range entries {
		canon.Add(e.VolunteerName)
	}
	names := canon.Names()
	sort.Strings(names)
	return names
}

// MatchingStudents narrows names to those containing term, ignoring case.
// It backs the student picker's type-ahead.
func MatchingStudents(names []string, term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []string
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), term) {
			out = append(out, n)
		}
	}
	return out
}

// Paginate returns the 1-based page of entries and the total page count.
// Pages past the end are empty.
func Paginate(entries []*domain.ProgressEntry, page, perPage int) ([]*domain.ProgressEntry, int) {
	if perPage <= 0 {
		perPage = len(entries)
		if perPage == 0 {
			return nil, 0
		}
	}
	pages := (len(entries) + perPage - 1) / perPage
	if page < 1 || page > pages {
		return nil, pages
	}
	start := (page - 1) * perPage
	end := min(start+perPage, len(entries))
	return entries[start:end], pages
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

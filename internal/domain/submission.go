package domain

import (
	"strings"
	"time"
)

// Section is one class/topic grouping inside a multi-part submission.
// Each section becomes its own entry.
type Section struct {
	KidsTaught  []string
	Class       string
	TopicTaught string
	Homework    string
}

// IsBlank reports whether nothing was filled in. Blank sections are
// dropped from a submission rather than rejected.
func (s Section) IsBlank() bool {
	return len(s.KidsTaught) == 0 && strings.TrimSpace(s.Class) == "" &&
		strings.TrimSpace(s.TopicTaught) == "" && strings.TrimSpace(s.Homework) == ""
}

// AddKid appends name unless an equal name (ignoring case) is present.
// It reports whether the name was added.
func (s *Section) AddKid(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, k := range s.KidsTaught {
		if NameKey(k) == NameKey(name) {
			return false
		}
	}
	s.KidsTaught = append(s.KidsTaught, name)
	return true
}

// Submission is a volunteer's log for one day, split into sections.
type Submission struct {
	Date          time.Time
	VolunteerName string
	Sections      []Section
}

// Entries expands the non-blank sections into unsaved entries.
func (s Submission) Entries() []*ProgressEntry {
	var out []*ProgressEntry
	for _, sec := range s.Sections {
		if sec.IsBlank() {
			continue
		}
		out = append(out, &ProgressEntry{
			Date:          CivilDate(s.Date),
			VolunteerName: strings.TrimSpace(s.VolunteerName),
			KidsTaught:    append([]string(nil), sec.KidsTaught...),
			Class:         strings.TrimSpace(sec.Class),
			TopicTaught:   strings.TrimSpace(sec.TopicTaught),
			Homework:      sec.Homework,
		})
	}
	return out
}

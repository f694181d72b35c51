package report

import (
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// InactivityThresholdDays is how long a volunteer may go without a session
// before being flagged inactive.
const InactivityThresholdDays = 14

// IsVolunteerInactive reports whether volunteer has no entries, or whose
// latest entry is dated strictly before now minus the threshold. A session
// exactly InactivityThresholdDays ago still counts as active.
func IsVolunteerInactive(volunteer string, entries []*domain.ProgressEntry, now time.Time) bool {
	key := domain.NameKey(volunteer)
	var latest time.Time
	found := false
	for _, e := range entries {
		if domain.NameKey(e.VolunteerName) != key {
			continue
		}
		if !found || e.Date.After(latest) {
			latest = e.Date
			found = true
		}
	}
	if !found {
		return true
	}
	return latest.Before(inactivityCutoff(now))
}

// InactiveVolunteers lists the volunteers, in canonical casing and
// first-seen order, whose latest session is older than the threshold.
func InactiveVolunteers(entries []*domain.ProgressEntry, now time.Time) []string {
	canon := domain.NewCanonicalizer()
	latest := make(map[string]time.Time)
	for _, e := range entries {
		name := canon.Add(e.VolunteerName)
		if name == "" {
			continue
		}
		if d, ok := latest[name]; !ok || e.Date.After(d) {
			latest[name] = e.Date
		}
	}

	cutoff := inactivityCutoff(now)
	var out []string
	for _, name := range canon.Names() {
		if latest[name].Before(cutoff) {
			out = append(out, name)
		}
	}
	return out
}

func inactivityCutoff(now time.Time) time.Time {
	return domain.CivilDate(now).AddDate(0, 0, -InactivityThresholdDays)
}

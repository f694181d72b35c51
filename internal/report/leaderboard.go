package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// LastDayLayout renders a volunteer's most recent day as day/month/yy.
const LastDayLayout = "02/01/06"

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	SortByDays   SortKey = "days"
	SortByRecent SortKey = "recent"
)

// ParseSortKey accepts "days" or "recent"; empty means days.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortByDays:
		return SortByDays, nil
	case SortByRecent:
		return SortByRecent, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want days or recent)", s)
	}
}

// VolunteerStat is one leaderboard row.
type VolunteerStat struct {
	Name    string
	Days    int
	LastDay time.Time
}

// LastDayLabel formats LastDay for display.
func (v VolunteerStat) LastDayLabel() string {
	return v.LastDay.Format(LastDayLayout)
}

// BuildVolunteerStats counts distinct session days per volunteer. Names are
// merged case-insensitively under their first-seen casing, and entries with
// no volunteer are skipped. Ties keep first-seen order.
func BuildVolunteerStats(entries []*domain.ProgressEntry, key SortKey) []VolunteerStat {
	canon := domain.NewCanonicalizer()
	days := make(map[string]map[string]struct{})
	last := make(map[string]time.Time)

	for _, e := range entries {
		name := canon.Add(e.VolunteerName)
		if name == "" {
			continue
		}
		if days[name] == nil {
			days[name] = make(map[string]struct{})
		}
		days[name][domain.FormatDate(e.Date)] = struct{}{}
		if e.Date.After(last[name]) {
			last[name] = e.Date
		}
	}

	stats := make([]VolunteerStat, 0, canon.Len())
	for _, name := range canon.Names() {
		stats = append(stats, VolunteerStat{Name: name, Days: len(days[name]), LastDay: last[name]})
	}

	switch key {
	case SortByRecent:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].LastDay.After(stats[j].LastDay)
		})
	default:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].Days > stats[j].Days
		})
	}
	return stats
}

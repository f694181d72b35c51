package report

import (
	"strings"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// FilterProfiles keeps profiles whose name contains search (ignoring case)
// and whose class equals class when class is set.
func FilterProfiles(profiles []*domain.KidProfile, search, class string) []*domain.KidProfile {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]*domain.KidProfile, 0, len(profiles))
	for _, p := range profiles {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if class != "" && p.ClassName != class {
			continue
		}
		out = append(out, p)
	}
	return out
}

// WithContacts keeps profiles that have a school or phone recorded.
func WithContacts(profiles []*domain.KidProfile) []*domain.KidProfile {
	var out []*domain.KidProfile
	for _, p := range profiles {
		if p.HasContacts() {
			out = append(out, p)
		}
	}
	return out
}

// ProfileClasses lists the distinct non-empty classes across profiles.
func ProfileClasses(profiles []*domain.KidProfile) []string {
	set := make(map[string]struct{})
	for _, p := range profiles {
		if p.ClassName != "" {
			set[p.ClassName] = struct{}{}
		}
	}
	return sortedKeys(set)
}

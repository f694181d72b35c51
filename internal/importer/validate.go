package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// ValidateImportFile checks the file before conversion and returns every
// problem found. Dates after today are rejected since a backfill only
// records sessions that already happened.
func ValidateImportFile(file *ImportFile, today time.Time) []error {
	var errs []error

	if len(file.Submissions) == 0 {
		return []error{fmt.Errorf("submissions: at least one submission is required")}
	}

	var defaults DefaultsImport
	if file.Defaults != nil {
		defaults = *file.Defaults
	}
	today = domain.CivilDate(today)

	for i, s := range file.Submissions {
		prefix := fmt.Sprintf("submissions[%d]", i)

		if strings.TrimSpace(s.Date) == "" {
			errs = append(errs, fmt.Errorf("%s.date is required", prefix))
		} else if d, err := time.Parse(domain.DateLayout, strings.TrimSpace(s.Date)); err != nil {
			errs = append(errs, fmt.Errorf("%s.date: invalid date format %q (expected YYYY-MM-DD)", prefix, s.Date))
		} else if d.After(today) {
			errs = append(errs, fmt.Errorf("%s.date %q is in the future", prefix, s.Date))
		}

		if firstNonBlank(s.VolunteerName, defaults.VolunteerName) == "" {
			errs = append(errs, fmt.Errorf("%s.volunteer_name is required (no default set)", prefix))
		}

		if len(s.Sections) == 0 {
			errs = append(errs, fmt.Errorf("%s.sections: at least one section is required", prefix))
		}
		for j, sec := range s.Sections {
			errs = append(errs, validateSection(fmt.Sprintf("%s.sections[%d]", prefix, j), sec, defaults)...)
		}
	}

	return errs
}

func validateSection(prefix string, sec SectionImport, defaults DefaultsImport) []error {
	var errs []error

	kids := 0
	for k, name := range sec.KidsTaught {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("%s.kids_taught[%d] is blank", prefix, k))
			continue
		}
		kids++
	}
	if kids == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("%s.kids_taught: at least one student is required", prefix))
	}
	if firstNonBlank(sec.Class, defaults.Class) == "" {
		errs = append(errs, fmt.Errorf("%s.class is required (no default set)", prefix))
	}
	if strings.TrimSpace(sec.TopicTaught) == "" {
		errs = append(errs, fmt.Errorf("%s.topic_taught is required", prefix))
	}

	return errs
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

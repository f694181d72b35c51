package importer

import (
	"fmt"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// Convert turns a validated ImportFile into submissions, in file order.
// Defaults fill in missing volunteer and class names. Repeated student
// names within a section collapse, ignoring case.
func Convert(file *ImportFile) ([]domain.Submission, error) {
	var defaults DefaultsImport
	if file.Defaults != nil {
		defaults = *file.Defaults
	}

	subs := make([]domain.Submission, 0, len(file.Submissions))
	for i, s := range file.Submissions {
		date, err := domain.ParseDate(s.Date)
		if err != nil {
			return nil, fmt.Errorf("submissions[%d]: %w", i, err)
		}

		sub := domain.Submission{
			Date:          date,
			VolunteerName: firstNonBlank(s.VolunteerName, defaults.VolunteerName),
			Sections:      make([]domain.Section, 0, len(s.Sections)),
		}
		for _, in := range s.Sections {
			sec := domain.Section{
				Class:       firstNonBlank(in.Class, defaults.Class),
				TopicTaught: firstNonBlank(in.TopicTaught),
				Homework:    in.Homework,
			}
			for _, kid := range in.KidsTaught {
				sec.AddKid(kid)
			}
			sub.Sections = append(sub.Sections, sec)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// EntryCount is the number of entries the submissions will create.
func EntryCount(subs []domain.Submission) int {
	n := 0
	for _, s := range subs {
		n += len(s.Entries())
	}
	return n
}

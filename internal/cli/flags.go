package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/spf13/pflag"
)

// filterFlags binds the entry-list search filters to a flag set.
type filterFlags struct {
	student   string
	class     string
	volunteer string
}

func (f *filterFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.student, "student", "s", "", "student name contains (case-insensitive)")
	fs.StringVarP(&f.class, "class", "c", "", "exact class")
	fs.StringVarP(&f.volunteer, "volunteer", "v", "", "volunteer name (case-insensitive)")
}

func (f *filterFlags) filters() domain.SearchFilters {
	return domain.SearchFilters{
		StudentName:   f.student,
		ClassName:     f.class,
		VolunteerName: f.volunteer,
	}
}

// dateValue is a pflag.Value holding a YYYY-MM-DD civil date.
type dateValue struct {
	t   *time.Time
	set bool
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(t *time.Time) *dateValue {
	return &dateValue{t: t}
}

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return domain.FormatDate(*d.t)
}

func (d *dateValue) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*d.t = t
	d.set = true
	return nil
}

func (d *dateValue) Type() string { return "date" }

// sectionValue collects repeated --section flags of the form
// "class=Math;topic=Fractions;kids=Ann,Bo;homework=p. 12".
type sectionValue struct {
	sections *[]domain.Section
}

var _ pflag.Value = (*sectionValue)(nil)

func (s *sectionValue) String() string {
	if s.sections == nil {
		return ""
	}
	return fmt.Sprintf("%d sections", len(*s.sections))
}

func (s *sectionValue) Set(raw string) error {
	sec, err := parseSection(raw)
	if err != nil {
		return err
	}
	*s.sections = append(*s.sections, sec)
	return nil
}

func (s *sectionValue) Type() string { return "section" }

func parseSection(raw string) (domain.Section, error) {
	var sec domain.Section
	for _, part := range strings.Split(raw, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return domain.Section{}, fmt.Errorf("section field %q must be key=value", part)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "class":
			sec.Class = strings.TrimSpace(val)
		case "topic":
			sec.TopicTaught = strings.TrimSpace(val)
		case "homework":
			sec.Homework = strings.TrimSpace(val)
		case "kids":
			for _, kid := range splitNames(val) {
				sec.AddKid(kid)
			}
		default:
			return domain.Section{}, fmt.Errorf("unknown section field %q", key)
		}
	}
	return sec, nil
}

// splitNames splits a comma-separated name list, dropping blanks.
func splitNames(raw string) []string {
	var out []string
	for _, n := range strings.Split(raw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

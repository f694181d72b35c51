package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report persisted column names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type sectionInput struct {
	KidsTaught  []string `json:"kids_taught" validate:"min=1,dive,required"`
	Class       string   `json:"class" validate:"required"`
	TopicTaught string   `json:"topic_taught" validate:"required"`
}

type entryInput struct {
	VolunteerName string   `json:"volunteer_name" validate:"required"`
	KidsTaught    []string `json:"kids_taught" validate:"min=1,dive,required"`
	Class         string   `json:"class" validate:"required"`
	TopicTaught   string   `json:"topic_taught" validate:"required"`
}

func newSectionInput(kids []string, class, topic string) sectionInput {
	trimmed := make([]string, len(kids))
	for i, k := range kids {
		trimmed[i] = strings.TrimSpace(k)
	}
	return sectionInput{
		KidsTaught:  trimmed,
		Class:       strings.TrimSpace(class),
		TopicTaught: strings.TrimSpace(topic),
	}
}

// ValidateNewEntry checks the fields required before an entry is created.
func ValidateNewEntry(e *ProgressEntry) error {
	sec := newSectionInput(e.KidsTaught, e.Class, e.TopicTaught)
	in := entryInput{
		VolunteerName: strings.TrimSpace(e.VolunteerName),
		KidsTaught:    sec.KidsTaught,
		Class:         sec.Class,
		TopicTaught:   sec.TopicTaught,
	}
	problems := structProblems(in, "")
	if e.Date.IsZero() {
		problems = append([]FieldProblem{{Field: "date", Message: "this field is required"}}, problems...)
	}
	return asValidationError(problems)
}

// ValidateSubmission checks a multi-section submission. Blank sections are
// ignored, but at least one section must remain.
func ValidateSubmission(s Submission) error {
	var problems []FieldProblem
	if s.Date.IsZero() {
		problems = append(problems, FieldProblem{Field: "date", Message: "this field is required"})
	}
	if strings.TrimSpace(s.VolunteerName) == "" {
		problems = append(problems, FieldProblem{Field: "volunteer_name", Message: "this field is required"})
	}
	filled := 0
	for i, sec := range s.Sections {
		if sec.IsBlank() {
			continue
		}
		filled++
		in := newSectionInput(sec.KidsTaught, sec.Class, sec.TopicTaught)
		problems = append(problems, structProblems(in, fmt.Sprintf("sections[%d].", i))...)
	}
	if filled == 0 {
		problems = append(problems, FieldProblem{
			Field:   "sections",
			Message: "fill in at least one section with students, class and topic",
		})
	}
	return asValidationError(problems)
}

// ValidatePatch rejects updates that would blank out a required field.
func ValidatePatch(p EntryPatch) error {
	if p.IsEmpty() {
		return asValidationError([]FieldProblem{{Field: "patch", Message: "nothing to update"}})
	}
	var problems []FieldProblem
	if p.KidsTaught != nil {
		if len(p.KidsTaught) == 0 {
			problems = append(problems, FieldProblem{Field: "kids_taught", Message: "at least one student is required"})
		}
		for i, k := range p.KidsTaught {
			if strings.TrimSpace(k) == "" {
				problems = append(problems, FieldProblem{Field: fmt.Sprintf("kids_taught[%d]", i), Message: "this field is required"})
			}
		}
	}
	if p.Class != nil && strings.TrimSpace(*p.Class) == "" {
		problems = append(problems, FieldProblem{Field: "class", Message: "this field is required"})
	}
	if p.TopicTaught != nil && strings.TrimSpace(*p.TopicTaught) == "" {
		problems = append(problems, FieldProblem{Field: "topic_taught", Message: "this field is required"})
	}
	if p.Date != nil && p.Date.IsZero() {
		problems = append(problems, FieldProblem{Field: "date", Message: "this field is required"})
	}
	return asValidationError(problems)
}

func structProblems(in any, prefix string) []FieldProblem {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldProblem{{Field: strings.TrimSuffix(prefix, "."), Message: err.Error()}}
	}
	problems := make([]FieldProblem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, FieldProblem{Field: prefix + fe.Field(), Message: problemText(fe)})
	}
	return problems
}

func problemText(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "min" && strings.HasPrefix(fe.Field(), "kids_taught"):
		return "at least one student is required"
	case fe.Tag() == "required":
		return "this field is required"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func asValidationError(problems []FieldProblem) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

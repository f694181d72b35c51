package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/alexanderramin/tutorlog/internal/cli/formatter"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// tutorlogHuhTheme styles huh forms with the formatter palette.
func tutorlogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("date is required")
	}
	_, err := domain.ParseDate(s)
	return err
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// submissionDraft is the form-backed state for an interactive entry.
type submissionDraft struct {
	date      string
	volunteer string
}

// sectionDraft holds one section while the form is being filled in.
type sectionDraft struct {
	kids     string
	class    string
	topic    string
	homework string
	another  bool
}

func (d sectionDraft) section() domain.Section {
	sec := domain.Section{
		Class:       strings.TrimSpace(d.class),
		TopicTaught: strings.TrimSpace(d.topic),
		Homework:    strings.TrimSpace(d.homework),
	}
	for _, kid := range splitNames(d.kids) {
		sec.AddKid(kid)
	}
	return sec
}

func newHeaderForm(d *submissionDraft, volunteers []string) *huh.Form {
	volunteer := huh.NewInput().
		Title("Volunteer").
		Validate(validateRequired("volunteer")).
		Value(&d.volunteer)
	if len(volunteers) > 0 {
		volunteer = volunteer.Suggestions(volunteers)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Placeholder(domain.DateLayout).
				Validate(validateDate).
				Value(&d.date),
			volunteer,
		),
	).WithTheme(tutorlogHuhTheme()).WithShowHelp(false)
}

func newSectionForm(n int, d *sectionDraft, students []string) *huh.Form {
	kids := huh.NewInput().
		Title("Students").
		Description("comma separated").
		Value(&d.kids)
	if len(students) > 0 {
		kids = kids.Suggestions(students)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(formatter.Header("Section " + strconv.Itoa(n))),
			kids,
			huh.NewInput().Title("Class").Value(&d.class),
			huh.NewInput().Title("Topic taught").Value(&d.topic),
			huh.NewText().Title("Homework").Value(&d.homework),
			huh.NewConfirm().Title("Add another section?").Value(&d.another),
		),
	).WithTheme(tutorlogHuhTheme()).WithShowHelp(false)
}

// runSubmissionForm collects a submission interactively.
func runSubmissionForm(app *App) (domain.Submission, error) {
	draft := submissionDraft{date: domain.FormatDate(app.now())}
	if err := newHeaderForm(&draft, app.Store.KnownVolunteers()).Run(); err != nil {
		return domain.Submission{}, err
	}
	date, err := domain.ParseDate(draft.date)
	if err != nil {
		return domain.Submission{}, err
	}
	sub := domain.Submission{Date: date, VolunteerName: draft.volunteer}
	for n := 1; ; n++ {
		var sd sectionDraft
		if err := newSectionForm(n, &sd, app.Store.KnownStudents()).Run(); err != nil {
			return domain.Submission{}, err
		}
		sub.Sections = append(sub.Sections, sd.section())
		if !sd.another {
			return sub, nil
		}
	}
}

// confirm asks a yes/no question. Without a terminal it refuses, so
// destructive commands must be run with --yes in scripts.
func confirm(app *App, title string) (bool, error) {
	if !app.interactive() {
		return false, errors.New("refusing without confirmation: pass --yes")
	}
	ok := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(tutorlogHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}

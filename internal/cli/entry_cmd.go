package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/cli/formatter"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entry",
		Aliases: []string{"entries"},
		Short:   "Log and manage progress entries",
	}

	cmd.AddCommand(
		newEntryAddCmd(app),
		newEntryListCmd(app),
		newEntryRefreshCmd(app),
		newEntryEditCmd(app),
		newEntryRemoveCmd(app),
		newEntryClearCmd(app),
		newEntryImportCmd(app),
	)

	return cmd
}

func newEntryAddCmd(app *App) *cobra.Command {
	var (
		date        time.Time
		volunteer   string
		kids        string
		class       string
		topic       string
		homework    string
		sections    []domain.Section
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a day of tutoring, one entry per section",
		Example: `  tutorlog entry add --volunteer Sam --kids "Ann,Bo" --class Math --topic Fractions
  tutorlog entry add --volunteer Sam --section "class=Math;topic=Fractions;kids=Ann" \
      --section "class=English;topic=Poems;kids=Bo;homework=read p. 4"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var sub domain.Submission
			if interactive {
				if !app.interactive() {
					return errors.New("--interactive needs a terminal")
				}
				var err error
				if sub, err = runSubmissionForm(app); err != nil {
					return err
				}
			} else {
				if date.IsZero() {
					date = domain.CivilDate(app.now())
				}
				sub = domain.Submission{Date: date, VolunteerName: volunteer, Sections: sections}
				if len(sections) == 0 {
					sec := domain.Section{Class: class, TopicTaught: topic, Homework: homework}
					for _, kid := range splitNames(kids) {
						sec.AddKid(kid)
					}
					sub.Sections = []domain.Section{sec}
				}
			}

			created, err := app.Store.Submit(ctx, sub)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved %s for %s on %s\n",
				formatter.Plural(len(created), "entry", "entries"),
				created[0].VolunteerName, domain.FormatDate(created[0].Date))
			for _, e := range created {
				fmt.Fprintf(out, "  %s  %s  %s  %s\n", formatter.TruncID(e.ID),
					e.Class, e.TopicTaught, strings.Join(e.KidsTaught, ", "))
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.Var(newDateValue(&date), "date", "session date, YYYY-MM-DD (default today)")
	fs.StringVar(&volunteer, "volunteer", "", "volunteer name")
	fs.StringVar(&kids, "kids", "", "comma-separated students")
	fs.StringVar(&class, "class", "", "class")
	fs.StringVar(&topic, "topic", "", "topic taught")
	fs.StringVar(&homework, "homework", "", "homework given")
	fs.Var(&sectionValue{sections: &sections}, "section", `section "class=..;topic=..;kids=A,B;homework=.." (repeatable)`)
	fs.BoolVarP(&interactive, "interactive", "i", false, "fill in a form instead of flags")
	cmd.MarkFlagsMutuallyExclusive("section", "kids")
	cmd.MarkFlagsMutuallyExclusive("section", "class")
	cmd.MarkFlagsMutuallyExclusive("section", "topic")
	cmd.MarkFlagsMutuallyExclusive("section", "homework")

	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var (
		filters filterFlags
		page    int
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := app.Store.Err(); err != nil {
				fmt.Fprintln(out, formatter.StyleYellow.Render("Warning: showing cached entries; last load failed: "+err.Error()))
			}

			matched := report.FilterEntries(app.Store.Entries(), filters.filters())
			if len(matched) == 0 {
				fmt.Fprintln(out, "No entries found.")
				return nil
			}

			rows, pages := report.Paginate(matched, page, perPage)
			fmt.Fprint(out, formatter.RenderTable(entryHeaders, entryRows(rows)))
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Page %d of %d · %s",
				page, pages, formatter.Plural(len(matched), "entry", "entries"))))
			return nil
		},
	}

	filters.bind(cmd.Flags())
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "entries per page")

	return cmd
}

var entryHeaders = []string{"ID", "DATE", "DAY", "VOLUNTEER", "STUDENTS", "CLASS", "TOPIC", "HOMEWORK"}

func entryRows(entries []*domain.ProgressEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			formatter.TruncID(e.ID),
			domain.FormatDate(e.Date),
			e.Day(),
			formatter.OrDash(e.VolunteerName),
			strings.Join(e.KidsTaught, ", "),
			formatter.OrDash(e.Class),
			formatter.OrDash(formatter.Truncate(e.TopicTaught, 30)),
			formatter.OrDash(formatter.Truncate(e.Homework, 30)),
		})
	}
	return rows
}

func newEntryRefreshCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Reload the most recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Loading entries...")
				defer stop()
			}
			if err := app.Store.Fetch(cmd.Context(), limit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s\n",
				formatter.Plural(len(app.Store.Entries()), "entry", "entries"))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "how many entries to load (default from config)")

	return cmd
}

func newEntryEditCmd(app *App) *cobra.Command {
	var (
		date      time.Time
		volunteer string
		kids      string
		class     string
		topic     string
		homework  string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireAdmin(ctx, tokenFlag(cmd)); err != nil {
				return err
			}

			fs := cmd.Flags()
			var patch domain.EntryPatch
			if fs.Changed("date") {
				patch.Date = &date
			}
			if fs.Changed("volunteer") {
				patch.VolunteerName = &volunteer
			}
			if fs.Changed("kids") {
				patch.KidsTaught = splitNames(kids)
				if patch.KidsTaught == nil {
					patch.KidsTaught = []string{}
				}
			}
			if fs.Changed("class") {
				patch.Class = &class
			}
			if fs.Changed("topic") {
				patch.TopicTaught = &topic
			}
			if fs.Changed("homework") {
				patch.Homework = &homework
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change: pass at least one field flag")
			}

			id, err := resolveEntryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Store.Update(ctx, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s (%s, %s)\n",
				updated.ID, domain.FormatDate(updated.Date), updated.Day())
			return nil
		},
	}

	fs := cmd.Flags()
	fs.Var(newDateValue(&date), "date", "new date, YYYY-MM-DD")
	fs.StringVar(&volunteer, "volunteer", "", "new volunteer name")
	fs.StringVar(&kids, "kids", "", "new comma-separated students")
	fs.StringVar(&class, "class", "", "new class")
	fs.StringVar(&topic, "topic", "", "new topic")
	fs.StringVar(&homework, "homework", "", "new homework")

	return cmd
}

func newEntryRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry (admin)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireAdmin(ctx, tokenFlag(cmd)); err != nil {
				return err
			}
			id, err := resolveEntryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(app, "Delete entry "+id+"?")
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Store.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func newEntryClearCmd(app *App) *cobra.Command {
	var (
		before time.Time
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry dated before a day (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireAdmin(ctx, tokenFlag(cmd)); err != nil {
				return err
			}
			label := domain.FormatDate(before)
			if !yes {
				ok, err := confirm(app, "Delete all entries dated before "+label+"?")
				if err != nil || !ok {
					return err
				}
			}
			n, err := app.Store.ClearBefore(ctx, before)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s dated before %s\n",
				formatter.Plural(int(n), "entry", "entries"), label)
			return nil
		},
	}

	cmd.Flags().Var(newDateValue(&before), "before", "cutoff day, YYYY-MM-DD; that day is kept")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	_ = cmd.MarkFlagRequired("before")

	return cmd
}

// resolveEntryID expands an ID prefix, as printed by "entry list", against
// the loaded entries. Input matching no loaded entry must be a full ID
// present in the remote table.
func resolveEntryID(ctx context.Context, app *App, input string) (string, error) {
	var matches []string
	for _, e := range app.Store.Entries() {
		if e.ID == input {
			return input, nil
		}
		if strings.HasPrefix(e.ID, input) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		if _, err := app.Store.Get(ctx, input); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", fmt.Errorf("entry %q: %w", input, domain.ErrNotFound)
			}
			return "", err
		}
		return input, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d entries", input, len(matches))
	}
}

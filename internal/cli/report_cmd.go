package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/tutorlog/internal/cli/formatter"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Student progress and volunteer activity",
	}

	cmd.AddCommand(
		newReportStudentsCmd(app),
		newReportStudentCmd(app),
		newReportVolunteersCmd(app),
	)

	return cmd
}

func newReportStudentsCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "students",
		Short: "List students seen in the loaded entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := report.MatchingStudents(report.Students(app.Store.Entries()), search)
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No students found.")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "name contains (case-insensitive)")

	return cmd
}

func newReportStudentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student <name>",
		Short: "Progress report for one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := report.BuildStudentStats(args[0], app.Store.Entries(), app.now())
			out := cmd.OutOrStdout()
			if stats.TotalSessions == 0 {
				fmt.Fprintf(out, "No sessions recorded for %s.\n", stats.Student)
				return nil
			}
			fmt.Fprintln(out, renderStudentStats(stats))
			return nil
		},
	}

	return cmd
}

func renderStudentStats(s report.StudentStats) string {
	var b strings.Builder

	summary := formatter.RenderKeyValues([][2]string{
		{"Sessions", strconv.Itoa(s.TotalSessions)},
		{"Volunteers", strconv.Itoa(s.UniqueVolunteers())},
		{"Topics", strconv.Itoa(s.UniqueTopics())},
		{"Last session", domain.FormatDate(s.LastSession) + "  " +
			formatter.RecencyStyle(s.RecentActivity, report.InactivityThresholdDays).Render(formatter.DaysAgo(s.RecentActivity))},
	})
	b.WriteString(formatter.RenderBox(s.Student, summary))
	b.WriteString("\n\n")

	b.WriteString(formatter.Header("Volunteers"))
	b.WriteString("\n")
	b.WriteString(formatter.RenderTable([]string{"NAME", "SESSIONS"}, nameCountRows(s.Volunteers)))
	b.WriteString("\n")

	b.WriteString(formatter.Header("Topics"))
	b.WriteString("\n")
	b.WriteString(formatter.RenderTable([]string{"TOPIC", "SESSIONS"}, nameCountRows(s.Topics)))

	if len(s.Homework) > 0 {
		b.WriteString("\n")
		b.WriteString(formatter.Header("Homework"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(s.Homework))
		for _, h := range s.Homework {
			rows = append(rows, []string{
				domain.FormatDate(h.Date),
				formatter.OrDash(h.Volunteer),
				formatter.OrDash(h.Class),
				formatter.OrDash(h.Topic),
				h.Homework,
			})
		}
		b.WriteString(formatter.RenderTable([]string{"DATE", "VOLUNTEER", "CLASS", "TOPIC", "HOMEWORK"}, rows))
	}
	return strings.TrimRight(b.String(), "\n")
}

func nameCountRows(counts []report.NameCount) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{formatter.OrDash(c.Name), strconv.Itoa(c.Count)})
	}
	return rows
}

func newReportVolunteersCmd(app *App) *cobra.Command {
	var (
		sortBy       string
		inactiveOnly bool
	)

	cmd := &cobra.Command{
		Use:   "volunteers",
		Short: "Volunteer leaderboard by days taught",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := report.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			entries := app.Store.Entries()
			stats := report.BuildVolunteerStats(entries, key)
			inactive := report.InactiveVolunteers(entries, app.now())

			rows := make([][]string, 0, len(stats))
			for _, v := range stats {
				isInactive := slices.Contains(inactive, v.Name)
				if inactiveOnly && !isInactive {
					continue
				}
				rows = append(rows, []string{
					v.Name,
					strconv.Itoa(v.Days),
					v.LastDayLabel(),
					formatter.ActivityBadge(isInactive),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				if inactiveOnly {
					fmt.Fprintln(out, "No inactive volunteers.")
				} else {
					fmt.Fprintln(out, "No volunteers found.")
				}
				return nil
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"VOLUNTEER", "DAYS", "LAST DAY", "STATUS"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", string(report.SortByDays), "order by days or recent")
	cmd.Flags().BoolVar(&inactiveOnly, "inactive", false, fmt.Sprintf("only volunteers idle for more than %d days", report.InactivityThresholdDays))

	return cmd
}

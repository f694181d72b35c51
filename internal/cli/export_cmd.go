package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		day       time.Time
		month     string
		student   string
		delimiter string
		outPath   string
		toStdout  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a day or month of entries as CSV",
		Example: `  tutorlog export --day 2024-06-10
  tutorlog export --month 2024-06 --student "Ann Lee" --out -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var period report.Period
			switch {
			case !day.IsZero():
				period = report.DailyPeriod(day)
			case month != "":
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("month %q must be YYYY-MM: %w", month, err)
				}
				period = report.MonthlyPeriod(t)
			default:
				period = report.MonthlyPeriod(app.now())
			}

			entries := report.EntriesInPeriod(app.Store.Entries(), period)
			if student != "" {
				entries = slices.DeleteFunc(entries, func(e *domain.ProgressEntry) bool {
					return !slices.Contains(e.KidsTaught, student)
				})
			}
			if len(entries) == 0 {
				return errors.New("no progress entries in the selected period")
			}

			body := report.ToDelimitedText(entries, report.ExportOptions{Delimiter: delimiter, Student: student})

			if toStdout || outPath == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), body)
				return err
			}
			if outPath == "" {
				outPath = report.ExportFilename(student, period)
			}
			if err := os.WriteFile(outPath, []byte(body), 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), outPath)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.Var(newDateValue(&day), "day", "export one day, YYYY-MM-DD")
	fs.StringVar(&month, "month", "", "export one month, YYYY-MM (default this month)")
	fs.StringVar(&student, "student", "", "only rows for this student (exact name)")
	fs.StringVar(&delimiter, "delimiter", ",", "field delimiter")
	fs.StringVarP(&outPath, "out", "o", "", `output file, "-" for stdout (default derived from period)`)
	fs.BoolVar(&toStdout, "stdout", false, "write to stdout")
	cmd.MarkFlagsMutuallyExclusive("day", "month")
	cmd.MarkFlagsMutuallyExclusive("out", "stdout")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/alexanderramin/tutorlog/internal/cli/formatter"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/importer"
	"github.com/spf13/cobra"
)

func newEntryImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Backfill entries from a JSON file of paper logs",
		Long: `Backfill entries from a JSON file of paper logs. Use "-" to read stdin.

The file is validated as a whole before anything is written. Each
submission is then saved in its own transaction, in file order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := importer.LoadImportFile(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			if errs := importer.ValidateImportFile(file, app.now()); len(errs) > 0 {
				errOut := cmd.ErrOrStderr()
				for _, e := range errs {
					fmt.Fprintln(errOut, "  "+formatter.StyleRed.Render(e.Error()))
				}
				return fmt.Errorf("import file has %s", formatter.Plural(len(errs), "problem", "problems"))
			}

			subs, err := importer.Convert(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "Would import %s from %s\n",
					formatter.Plural(importer.EntryCount(subs), "entry", "entries"),
					formatter.Plural(len(subs), "submission", "submissions"))
				return nil
			}

			saved := 0
			for i, sub := range subs {
				created, err := app.Store.Submit(cmd.Context(), sub)
				if err != nil {
					if saved > 0 {
						fmt.Fprintf(out, "Saved %s before the failure\n", formatter.Plural(saved, "entry", "entries"))
					}
					return fmt.Errorf("submission %d (%s, %s): %w",
						i, domain.FormatDate(sub.Date), sub.VolunteerName, err)
				}
				saved += len(created)
				app.logger().Debug("imported submission", "index", i, "entries", len(created))
			}

			fmt.Fprintf(out, "Imported %s from %s\n",
				formatter.Plural(saved, "entry", "entries"),
				formatter.Plural(len(subs), "submission", "submissions"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and count without saving")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/alexanderramin/tutorlog/internal/cli/formatter"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Student contact and school details",
	}

	cmd.AddCommand(
		newProfileListCmd(app),
		newProfileSetCmd(app),
	)

	return cmd
}

func newProfileListCmd(app *App) *cobra.Command {
	var (
		search   string
		class    string
		contacts bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved profiles and students seen in entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := app.Profiles.List(cmd.Context())
			if err != nil {
				return err
			}
			profiles = report.FilterProfiles(profiles, search, class)
			if contacts {
				profiles = report.WithContacts(profiles)
			}

			out := cmd.OutOrStdout()
			if len(profiles) == 0 {
				fmt.Fprintln(out, "No profiles found.")
				return nil
			}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				saved := formatter.StyleGreen.Render("saved")
				if p.IsPlaceholder() {
					saved = formatter.Dim("unsaved")
				}
				rows = append(rows, []string{
					p.Name,
					formatter.OrDash(p.ClassName),
					formatter.OrDash(p.School),
					formatter.OrDash(p.Phone),
					saved,
				})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"NAME", "CLASS", "SCHOOL", "PHONE", ""}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "name contains (case-insensitive)")
	cmd.Flags().StringVar(&class, "class", "", "exact class")
	cmd.Flags().BoolVar(&contacts, "contacts", false, "only profiles with a school or phone")
	_ = cmd.RegisterFlagCompletionFunc("class", completeProfileClasses(app))

	return cmd
}

func newProfileSetCmd(app *App) *cobra.Command {
	var class, school, phone string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or update a student's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			profiles, err := app.Profiles.List(ctx)
			if err != nil {
				return err
			}

			p := &domain.KidProfile{Name: args[0]}
			key := domain.NameKey(args[0])
			for _, existing := range profiles {
				if domain.NameKey(existing.Name) == key {
					cp := *existing
					p = &cp
					break
				}
			}

			fs := cmd.Flags()
			if fs.Changed("class") {
				p.ClassName = class
			}
			if fs.Changed("school") {
				p.School = school
			}
			if fs.Changed("phone") {
				p.Phone = phone
			}

			created := p.IsPlaceholder()
			saved, err := app.Profiles.Save(ctx, p)
			if err != nil {
				return err
			}
			verb := "Updated"
			if created {
				verb = "Created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s profile for %s\n", verb, saved.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "class name")
	cmd.Flags().StringVar(&school, "school", "", "school")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")

	return cmd
}

// completeProfileClasses offers the classes known to the profile directory.
func completeProfileClasses(app *App) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		profiles, err := app.Profiles.List(cmd.Context())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return report.ProfileClasses(profiles), cobra.ShellCompDirectiveNoFileComp
	}
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/tutorlog/internal/auth"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Admin passcode and tokens",
	}

	cmd.AddCommand(
		newAuthHashCmd(app),
		newAuthTokenCmd(app),
	)

	return cmd
}

// readPasscode takes the passcode from a masked prompt on a terminal, or
// from the first line of stdin otherwise.
func readPasscode(app *App, cmd *cobra.Command) (string, error) {
	if app.interactive() {
		var pass string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Admin passcode").
					EchoMode(huh.EchoModePassword).
					Value(&pass),
			),
		).WithTheme(tutorlogHuhTheme()).WithShowHelp(false).Run()
		return pass, err
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("reading passcode from stdin: no input")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newAuthHashCmd(app *App) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Hash an admin passcode for the passcode_hash setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := readPasscode(app, cmd)
			if err != nil {
				return err
			}
			hash, err := auth.HashPasscode(pass, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default 10)")

	return cmd
}

func newAuthTokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange the admin passcode for a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Issuer == nil {
				return errAuthDisabled
			}
			pass, err := readPasscode(app, cmd)
			if err != nil {
				return err
			}
			token, expires, err := app.Issuer.Exchange(pass)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s; export %s to use it\n",
				expires.Format("2006-01-02 15:04"), TokenEnv)
			return nil
		},
	}

	return cmd
}

// Package cli is the tutorlog command tree.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/tutorlog/internal/auth"
	"github.com/alexanderramin/tutorlog/internal/config"
	"github.com/alexanderramin/tutorlog/internal/service"
	"github.com/spf13/cobra"
)

// TokenEnv is read when --token is not given.
const TokenEnv = "TUTORLOG_TOKEN"

// App holds the services and settings used by CLI commands.
type App struct {
	Store    service.EntryService
	Profiles service.ProfileDirectory
	// Issuer is nil when no secret key is configured; admin commands and
	// token exchange are then unavailable.
	Issuer *auth.Issuer
	Config config.Config
	Logger *slog.Logger

	// Now is the clock for reports. Defaults to time.Now.
	Now func() time.Time
	// IsInteractive reports whether prompts can be shown.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

var errAuthDisabled = errors.New("admin commands need secret_key to be configured")

// requireAdmin checks the token from --token or TUTORLOG_TOKEN for the
// entries admin capability.
func (a *App) requireAdmin(ctx context.Context, token string) error {
	if a.Issuer == nil {
		return errAuthDisabled
	}
	if token == "" {
		token = os.Getenv(TokenEnv)
	}
	claims, err := a.Issuer.Authorize(ctx, token)
	if err != nil {
		return err
	}
	return claims.Require(auth.CapEntriesAdmin)
}

// NewRootCmd creates the top-level "tutorlog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tutorlog",
		Short:         "Volunteer tutoring progress tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("token", "", "admin token (defaults to $"+TokenEnv+")")

	root.AddCommand(
		newEntryCmd(app),
		newReportCmd(app),
		newExportCmd(app),
		newProfileCmd(app),
		newAuthCmd(app),
		newServeCmd(app),
		newBrowseCmd(app),
	)

	return root
}

func tokenFlag(cmd *cobra.Command) string {
	token, _ := cmd.Flags().GetString("token")
	return token
}

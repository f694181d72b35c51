package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/tutorlog/internal/auth"
	"github.com/alexanderramin/tutorlog/internal/cli"
	"github.com/alexanderramin/tutorlog/internal/config"
	"github.com/alexanderramin/tutorlog/internal/db"
	"github.com/alexanderramin/tutorlog/internal/repository"
	"github.com/alexanderramin/tutorlog/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(config.Options{ConfigFile: os.Getenv("TUTORLOG_CONFIG")})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelWarn
	if cfg.LogUseCases {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	database, err := db.Open(ctx, cfg.DBOptions())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	entryRepo := repository.NewSQLEntryRepo(database.Conn())
	profileRepo := repository.NewSQLKidProfileRepo(database.Conn())

	// Wire unit of work for multi-section submissions
	uow := db.NewSQLUnitOfWork(database)

	// Failures log at Error; successes only show when log_use_cases lowers
	// the level to Info.
	observer := service.NewSlogUseCaseObserver(logger)

	store := service.NewEntryStore(entryRepo, uow, cfg.FetchLimit, observer)
	defer store.Close()

	// A failed initial load leaves the store empty with Err set; commands
	// report it rather than refusing to start.
	if err := store.Fetch(ctx, 0); err != nil {
		logger.Warn("initial fetch failed", "error", err)
	}

	app := &cli.App{
		Store:    store,
		Profiles: service.NewProfileService(profileRepo, entryRepo, observer),
		Config:   cfg,
		Logger:   logger,
	}

	if cfg.AuthEnabled() {
		issuer, err := auth.NewIssuer(auth.Config{
			Secret:       cfg.SecretKey,
			PasscodeHash: cfg.PasscodeHash,
			Issuer:       cfg.TokenIssuer,
			TTL:          cfg.TokenTTL,
		})
		if err != nil {
			return fmt.Errorf("configuring auth: %w", err)
		}
		app.Issuer = issuer
	}

	// Detect interactive terminal for prompts, forms and the browser.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/gtmdash/internal/app"
	"github.com/alexanderramin/gtmdash/internal/cli"
	"github.com/alexanderramin/gtmdash/internal/config"
	"github.com/alexanderramin/gtmdash/internal/db"
	"github.com/alexanderramin/gtmdash/internal/repository"
	"github.com/alexanderramin/gtmdash/internal/telemetry"
	"github.com/mattn/go-isatty"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		var exit *cli.ExitError
		if errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, exit.Err)
			os.Exit(exit.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer database.Close()

	tp, err := telemetry.New(ctx, cfg.OTel, version)
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("flushing metrics", "error", err)
		}
	}()

	factory := app.Factory{
		Config:    cfg,
		Logger:    logger,
		Meter:     tp.Meter(),
		Snapshots: repository.NewSQLiteSnapshotRepo(database),
	}

	// The service is built on first use, after --backend is parsed.
	a := &cli.App{
		Backend:     cfg.Backend,
		Version:     version,
		Build:       factory.Build,
		Snapshots:   factory.Snapshots,
		Logger:      logger,
		Interactive: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}

	return cli.NewRootCmd(a).ExecuteContext(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

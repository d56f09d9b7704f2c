package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/gtmdash/internal/cli/formatter"
	"github.com/alexanderramin/gtmdash/internal/config"
	"github.com/alexanderramin/gtmdash/internal/format"
	"github.com/alexanderramin/gtmdash/internal/repository"
	"github.com/alexanderramin/gtmdash/internal/service"
	"github.com/spf13/cobra"
)

// App holds everything the commands need.
type App struct {
	// Service is built from Backend on first use when nil.
	Service service.Service
	Backend config.Backend
	Version string

	Build func(ctx context.Context, backend config.Backend) (service.Service, error)
	// Snapshots is nil when no snapshot store is open.
	Snapshots repository.SnapshotRepo

	Logger      *slog.Logger
	Interactive bool
	Now         func() time.Time
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now().UTC()
}

// service returns the service for the selected backend, building it on
// first use.
func (a *App) service(ctx context.Context) (service.Service, error) {
	if a.Service != nil {
		return a.Service, nil
	}
	if a.Build == nil {
		return nil, fmt.Errorf("backend %q cannot be selected here", a.Backend)
	}
	svc, err := a.Build(ctx, a.Backend)
	if err != nil {
		return nil, fmt.Errorf("building %s backend: %w", a.Backend, err)
	}
	a.Service = svc
	return svc, nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// NewRootCmd creates the top-level "gtmdash" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var backend string

	root := &cobra.Command{
		Use:           "gtmdash",
		Short:         "Time tracking dashboard for git-time-metric",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("backend") {
				return nil
			}
			b := config.Backend(backend)
			if !b.Valid() {
				return fmt.Errorf("unknown backend %q", backend)
			}
			app.Backend = b
			app.Service = nil
			return nil
		},
	}
	root.PersistentFlags().StringVar(&backend, "backend", "", "Override the configured backend (process, web, mock, snapshot, git, reject, failure)")

	root.AddCommand(
		newVersionCmd(app),
		newCommitsCmd(app),
		newProjectsCmd(app),
		newStatusCmd(app),
		newStatsCmd(app),
		newSnapshotCmd(app),
		newEmulateCmd(app),
	)

	return root
}

// rangeFlags are the date filter flags shared by commits, stats and
// snapshot save.
type rangeFlags struct {
	from, to, message string
}

func (r *rangeFlags) register(cmd *cobra.Command, withMessage bool) {
	cmd.Flags().StringVar(&r.from, "from", "", "Start date YYYY-MM-DD (default 7 days ago)")
	cmd.Flags().StringVar(&r.to, "to", "", "End date YYYY-MM-DD, inclusive (default today)")
	if withMessage {
		cmd.Flags().StringVar(&r.message, "message", "", "Only commits whose message contains this text")
	}
}

func (r *rangeFlags) filter(now time.Time) service.CommitsFilter {
	f := service.CommitsFilter{Start: r.from, End: r.to, Message: r.message}
	if f.Start == "" {
		f.Start = format.FormatDate(now.AddDate(0, 0, -7))
	}
	if f.End == "" {
		f.End = format.FormatDate(now)
	}
	return f
}

// load runs fn behind a spinner on interactive terminals.
func load[T any](cmd *cobra.Command, app *App, message string, fn func(ctx context.Context) (T, error)) (T, error) {
	stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.Interactive, message)
	defer stop()
	return fn(cmd.Context())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

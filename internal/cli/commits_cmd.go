package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gtmdash/internal/cli/formatter"
	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/stats"
	"github.com/spf13/cobra"
)

func newCommitsCmd(app *App) *cobra.Command {
	var rf rangeFlags
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "commits",
		Short: "List tracked commits in a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			filter := rf.filter(app.now())
			commits, err := load(cmd, app, "Fetching commits", func(ctx context.Context) ([]domain.Commit, error) {
				return svc.FetchCommits(ctx, filter)
			})
			if err != nil {
				return fmt.Errorf("fetching commits: %w", err)
			}
			// Fills in each commit's TimeSpent.
			stats.ComputeStats(commits, stats.NewLogSink(app.logger()))

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), commits)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCommits(commits))
			return nil
		},
	}

	rf.register(cmd, true)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of a table")
	return cmd
}

func newProjectsCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List tracked projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			names, err := load(cmd, app, "Fetching projects", svc.FetchProjectList)
			if err != nil {
				return fmt.Errorf("fetching projects: %w", err)
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), names)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjects(names))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of a list")
	return cmd
}

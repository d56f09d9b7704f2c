package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gtmdash/internal/cli/formatter"
	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/stats"
	"github.com/spf13/cobra"
)

type statsReport struct {
	Stats    domain.Stats      `json:"stats"`
	Daily    domain.DailyHours `json:"daily"`
	Warnings []stats.Warning   `json:"warnings,omitempty"`
}

func newStatsCmd(app *App) *cobra.Command {
	var rf rangeFlags
	var jsonOut, showWarnings bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize tracked time by project, status and day",
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

			collector := &stats.Collector{}
			report := statsReport{Stats: stats.ComputeStats(commits, collector)}
			report.Daily = stats.GetDaily(report.Stats.Projects)

			warnings := collector.Warnings()
			if showWarnings {
				report.Warnings = warnings
			} else {
				logSink := stats.NewLogSink(app.logger())
				for _, w := range warnings {
					logSink.Warn(w)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, report)
			}
			fmt.Fprint(out, formatter.FormatStats(report.Stats, report.Daily))
			if len(report.Warnings) > 0 {
				fmt.Fprint(out, "\n"+formatter.FormatWarnings(report.Warnings))
			}
			return nil
		},
	}

	rf.register(cmd, true)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of tables")
	cmd.Flags().BoolVar(&showWarnings, "warnings", false, "Include data consistency warnings in the output")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/alexanderramin/gtmdash/internal/cli/formatter"
	"github.com/alexanderramin/gtmdash/internal/stats"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show uncommitted time per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			list, err := load(cmd, app, "Fetching working tree status", svc.FetchWorkdirStatus)
			if err != nil {
				return fmt.Errorf("fetching workdir status: %w", err)
			}
			s := stats.ComputeWorkdirStatus(list, stats.NewLogSink(app.logger()))

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkdirStatus(s))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of tables")
	return cmd
}

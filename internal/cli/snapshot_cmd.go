package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/gtmdash/internal/cli/formatter"
	"github.com/alexanderramin/gtmdash/internal/domain"
	"github.com/alexanderramin/gtmdash/internal/service"
	"github.com/spf13/cobra"
)

var errNoSnapshotStore = errors.New("no snapshot store configured")

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and manage captures of backend data",
	}
	cmd.AddCommand(
		newSnapshotSaveCmd(app),
		newSnapshotListCmd(app),
		newSnapshotDeleteCmd(app),
	)
	return cmd
}

func newSnapshotSaveCmd(app *App) *cobra.Command {
	var rf rangeFlags

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Capture commits, projects and workdir status from the current backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Snapshots == nil {
				return errNoSnapshotStore
			}
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			filter := rf.filter(app.now())
			sets, err := load(cmd, app, "Capturing backend data", func(ctx context.Context) (map[string][]byte, error) {
				return service.Capture(ctx, svc, filter)
			})
			if err != nil {
				return fmt.Errorf("capturing snapshot: %w", err)
			}

			snap := &domain.Snapshot{
				Backend:   string(app.Backend),
				FromDate:  filter.Start,
				ToDate:    filter.End,
				CreatedAt: app.now(),
				Sets:      sets,
			}
			if err := app.Snapshots.Create(cmd.Context(), snap); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshotSaved(snap))
			return nil
		},
	}

	rf.register(cmd, false)
	return cmd
}

func newSnapshotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Snapshots == nil {
				return errNoSnapshotStore
			}
			snapshots, err := app.Snapshots.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing snapshots: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshots(snapshots, app.now()))
			return nil
		},
	}
}

func newSnapshotDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Snapshots == nil {
				return errNoSnapshotStore
			}
			if err := app.Snapshots.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", args[0])
			return nil
		},
	}
}

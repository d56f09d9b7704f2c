package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show gtmdash and backend versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.service(cmd.Context())
			if err != nil {
				return err
			}
			v, err := load(cmd, app, "Asking backend for its version", func(ctx context.Context) (string, error) {
				return svc.GetVersion(ctx)
			})
			if err != nil {
				return fmt.Errorf("getting %s version: %w", app.Backend, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gtmdash %s\n", app.Version)
			fmt.Fprintf(out, "%s: %s\n", app.Backend, v)
			return nil
		},
	}
}

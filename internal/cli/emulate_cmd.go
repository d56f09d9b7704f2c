package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/gtmdash/internal/format"
	"github.com/alexanderramin/gtmdash/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Exit codes of the emulate command, matching the gtm mock script.
const (
	ExitNoSubcommand      = 2
	ExitMissingDates      = 5
	ExitUnknownSubcommand = 6
	ExitServiceError      = 7
)

// ExitError asks main to exit with Code instead of the default 1.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func exitErr(code int, msg string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(msg, args...)}
}

// newEmulateCmd speaks the gtm process protocol on top of the configured
// backend, so ProcessService can be pointed at gtmdash itself.
func newEmulateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:                "emulate <commits|projects|status|--version> [flags]",
		Short:              "Act as the gtm binary using the configured backend",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return exitErr(ExitNoSubcommand, "not enough arguments for emulate")
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			svc, err := app.service(ctx)
			if err != nil {
				return &ExitError{Code: ExitServiceError, Err: err}
			}

			var result any
			switch args[0] {
			case "--version":
				v, err := svc.GetVersion(ctx)
				if err != nil {
					return &ExitError{Code: ExitServiceError, Err: err}
				}
				fmt.Fprintln(out, v)
				return nil
			case "commits":
				filter, perr := parseEmulateCommits(args[1:])
				if perr != nil {
					return perr
				}
				result, err = svc.FetchCommits(ctx, filter)
			case "projects":
				result, err = svc.FetchProjectList(ctx)
			case "status":
				result, err = svc.FetchWorkdirStatus(ctx)
			default:
				return exitErr(ExitUnknownSubcommand, "unrecognized emulate sub-command %q", args[0])
			}
			if err != nil {
				return &ExitError{Code: ExitServiceError, Err: err}
			}
			if err := writeCompactJSON(out, result); err != nil {
				return &ExitError{Code: ExitServiceError, Err: err}
			}
			return nil
		},
	}
}

// parseEmulateCommits reads gtm-style commit flags. The exclusive
// --to-date a caller sends is turned back into an inclusive end date.
func parseEmulateCommits(args []string) (service.CommitsFilter, error) {
	fs := pflag.NewFlagSet("commits", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	from := fs.String("from-date", "", "")
	to := fs.String("to-date", "", "")
	message := fs.String("message", "", "")
	if err := fs.Parse(args); err != nil {
		return service.CommitsFilter{}, exitErr(ExitMissingDates, "parsing commits flags: %v", err)
	}
	if *from == "" || *to == "" {
		return service.CommitsFilter{}, &ExitError{Code: ExitMissingDates, Err: errors.New("commits needs --from-date and --to-date")}
	}

	end := *to
	if t, ok := format.ParseDate(end); ok {
		end = format.FormatDate(t.AddDate(0, 0, -1))
	}
	return service.CommitsFilter{Start: *from, End: end, Message: *message}, nil
}

func writeCompactJSON(w io.Writer, v any) error {
	// gtm prints one JSON document per invocation.
	return json.NewEncoder(w).Encode(v)
}

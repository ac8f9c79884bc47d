package cli

import (
	"fmt"

	"github.com/alexanderramin/attendance/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRefreshCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the task list and store it as a new snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			stop := func() {}
			if !asJSON && app.IsInteractive != nil && app.IsInteractive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Fetching tasks...")
			}
			res, err := app.Attendance.Refresh(cmd.Context())
			stop()
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(out, res)
			}
			fmt.Fprint(out, formatter.FormatRefreshResult(res))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a JSON task dump as a new snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Attendance.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			fmt.Fprint(out, formatter.FormatRefreshResult(res))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("dashboard needs an interactive terminal; use report, anomalies or sessions instead")

func newDashboardCmd(app *App) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse summaries, anomalies and sessions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive == nil || !app.IsInteractive() {
				return errNotInteractive
			}
			req, err := flags.request(app.location())
			if err != nil {
				return err
			}
			if err := req.Filters.Validate(); err != nil {
				return err
			}

			model := newDashboardModel(cmd.Context(), app, req)
			if flags.refresh {
				model.pendingRefresh = true
			}
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(),
				tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running dashboard: %w", err)
			}
			return nil
		},
	}
	flags.bind(cmd)
	_ = cmd.Flags().MarkHidden("json")
	return cmd
}

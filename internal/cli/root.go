package cli

import (
	"time"

	"github.com/alexanderramin/attendance/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and terminal settings used by CLI commands.
type App struct {
	Attendance service.AttendanceService

	// Location is the zone session times are printed in.
	Location *time.Location

	// IsInteractive reports whether stdin is a terminal. The dashboard
	// refuses to start when it returns false.
	IsInteractive func() bool
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

// NewRootCmd creates the top-level "attendance" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "attendance",
		Short:         "Reconcile logged work hours and flag attendance anomalies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newReportCmd(app),
		newAnomaliesCmd(app),
		newSessionsCmd(app),
		newRefreshCmd(app),
		newImportCmd(app),
		newDashboardCmd(app),
	)

	return root
}

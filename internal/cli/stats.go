package cli

import (
	"github.com/spf13/cobra"

	"github.com/propdesk/maintenance-service/internal/config"
	"github.com/propdesk/maintenance-service/internal/projection"
)

func newStatsCmd(app *App, defaults *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the manager dashboard aggregates",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState(cmd.Context(), app, defaults)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			dashboard := projection.BuildDashboard(st.tickets.Snapshot(), st.assignments.Staff(), operator, app.Now())
			return writeOut(cmd, app, dashboard)
		},
	}
}

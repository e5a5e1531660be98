package cli

import (
	"github.com/spf13/cobra"

	"github.com/propdesk/maintenance-service/internal/config"
	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/projection"
)

func newStaffCmd(app *App, defaults *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Staff directory commands",
	}
	cmd.AddCommand(newStaffEligibleCmd(app, defaults))
	cmd.AddCommand(newStaffWorkloadCmd(app, defaults))
	return cmd
}

func newStaffEligibleCmd(app *App, defaults *config.Config) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "eligible",
		Short: "List available staff covering a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState(cmd.Context(), app, defaults)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			staff, err := st.assignments.EligibleStaff(domain.TicketCategory(category))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, staff)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Ticket category")
	return cmd
}

func newStaffWorkloadCmd(app *App, defaults *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "workload",
		Short: "Assigned and completed tickets per staff member",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState(cmd.Context(), app, defaults)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			return writeOut(cmd, app, projection.StaffWorkload(st.tickets.Snapshot(), st.assignments.Staff()))
		},
	}
}

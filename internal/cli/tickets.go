package cli

import (
	"github.com/spf13/cobra"

	"github.com/propdesk/maintenance-service/internal/config"
	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/projection"
)

func newTicketsCmd(app *App, defaults *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Ticket commands",
	}
	cmd.AddCommand(newTicketsListCmd(app, defaults))
	cmd.AddCommand(newTicketsShowCmd(app, defaults))
	return cmd
}

func newTicketsListCmd(app *App, defaults *config.Config) *cobra.Command {
	var query projection.TicketQuery
	var status, priority, category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState(cmd.Context(), app, defaults)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			query.Status = domain.TicketStatus(status)
			query.Priority = domain.TicketPriority(priority)
			query.Category = domain.TicketCategory(category)
			tickets, err := st.tickets.List(operator, query)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, tickets)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&priority, "priority", "", "Filter by priority")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&query.CreatedBy, "user", "", "Filter by creator id")
	cmd.Flags().StringVar(&query.PropertyID, "property", "", "Filter by property id")
	cmd.Flags().StringVar(&query.AssignedTo, "assignee", "", "Filter by assigned staff id")
	cmd.Flags().StringVar(&query.Search, "search", "", "Case-insensitive title/description search")
	cmd.Flags().StringVar(&query.Sort, "sort", "", "newest|oldest|priority|status")
	return cmd
}

func newTicketsShowCmd(app *App, defaults *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticket-id>",
		Short: "Show one ticket including private notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadState(cmd.Context(), app, defaults)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			ticket, err := st.tickets.Get(operator, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, ticket)
		},
	}
}

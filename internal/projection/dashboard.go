package projection

import (
	"time"

	"github.com/propdesk/maintenance-service/internal/domain"
)

const dashboardListSize = 3

// Dashboard bundles the aggregates shown on a role's landing page.
type Dashboard struct {
	Total                  int                               `json:"total"`
	Active                 int                               `json:"active"`
	Completed              int                               `json:"completed"`
	UrgentOpen             int                               `json:"urgentOpen"`
	ResolutionRate         float64                           `json:"resolutionRate"`
	AverageResolutionHours float64                           `json:"averageResolutionHours"`
	AverageSatisfaction    float64                           `json:"averageSatisfaction"`
	TotalCost              float64                           `json:"totalCost"`
	AverageCostPerResolved float64                           `json:"averageCostPerResolved"`
	ByStatus               map[domain.TicketStatus]int       `json:"byStatus"`
	ByPriority             map[domain.TicketPriority]int     `json:"byPriority"`
	ByCategory             map[domain.TicketCategory]int     `json:"byCategory"`
	CostByCategory         map[domain.TicketCategory]float64 `json:"costByCategory"`
	Recent                 []domain.Ticket                   `json:"recent"`
	Upcoming               []domain.Ticket                   `json:"upcoming"`
	Today                  []domain.Ticket                   `json:"today,omitempty"`
	Deadlines              []domain.Ticket                   `json:"deadlines,omitempty"`
	Workload               []StaffLoad                       `json:"workload,omitempty"`
}

// BuildDashboard computes the dashboard for actor over the full snapshot.
func BuildDashboard(all []domain.Ticket, staff []domain.Staff, actor domain.Actor, now time.Time) Dashboard {
	scoped := ScopeFor(all, actor)

	d := Dashboard{
		Total:                  len(scoped),
		Completed:              len(Completed(scoped)),
		UrgentOpen:             len(UrgentOpen(scoped)),
		ResolutionRate:         ResolutionRate(scoped),
		AverageResolutionHours: AverageResolutionHours(scoped),
		AverageSatisfaction:    AverageSatisfaction(scoped),
		TotalCost:              TotalCost(scoped),
		AverageCostPerResolved: AverageCostPerResolved(scoped),
		ByStatus:               StatusDistribution(scoped),
		ByPriority:             PriorityDistribution(scoped),
		ByCategory:             CategoryDistribution(scoped),
		CostByCategory:         CostByCategory(scoped),
		Recent:                 visibleTo(Recent(scoped, dashboardListSize), actor),
		Upcoming:               visibleTo(Upcoming(scoped, now, dashboardListSize), actor),
	}

	switch actor.Role {
	case domain.RoleTenant:
		d.Active = len(ActiveForTenant(scoped, actor.ID))
	case domain.RoleStaff:
		d.Active = len(ActiveForStaff(scoped, actor.ID))
		d.Today = visibleTo(ScheduleForDay(scoped, now), actor)
		d.Deadlines = visibleTo(limit(Deadlines(scoped, now), dashboardListSize), actor)
	default:
		d.Active = d.Total - d.Completed
		d.Workload = StaffWorkload(all, staff)
	}
	return d
}

// visibleTo strips notes the actor may not read from the listed tickets.
func visibleTo(tickets []domain.Ticket, actor domain.Actor) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		c := t.Clone()
		c.Notes = t.VisibleNotes(actor)
		out = append(out, c)
	}
	return out
}

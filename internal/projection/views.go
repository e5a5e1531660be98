package projection

import (
	"sort"
	"time"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// Completed returns resolved and closed tickets.
func Completed(tickets []domain.Ticket) []domain.Ticket {
	return Where(tickets, func(t domain.Ticket) bool { return t.Status.Completed() })
}

// ActiveForTenant returns tenantID's tickets that still await work.
func ActiveForTenant(tickets []domain.Ticket, tenantID string) []domain.Ticket {
	return Where(tickets, func(t domain.Ticket) bool {
		if t.CreatedBy != tenantID {
			return false
		}
		switch t.Status {
		case domain.TicketStatusNew, domain.TicketStatusAssigned, domain.TicketStatusInProgress:
			return true
		}
		return false
	})
}

// ActiveForStaff returns staffID's assigned or in-progress tickets.
func ActiveForStaff(tickets []domain.Ticket, staffID string) []domain.Ticket {
	return Where(tickets, func(t domain.Ticket) bool {
		return t.IsAssignedTo(staffID) &&
			(t.Status == domain.TicketStatusAssigned || t.Status == domain.TicketStatusInProgress)
	})
}

// UrgentOpen returns urgent tickets not yet completed.
func UrgentOpen(tickets []domain.Ticket) []domain.Ticket {
	return Where(tickets, func(t domain.Ticket) bool {
		return t.Priority == domain.TicketPriorityUrgent && !t.Status.Completed()
	})
}

// Deadlines returns open tickets that are urgent or scheduled before now,
// newest first.
func Deadlines(tickets []domain.Ticket, now time.Time) []domain.Ticket {
	out := Where(tickets, func(t domain.Ticket) bool {
		if t.Status.Completed() {
			return false
		}
		overdue := t.ScheduledDate != nil && t.ScheduledDate.Before(now)
		return t.Priority == domain.TicketPriorityUrgent || overdue
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Recent returns up to n tickets, newest first.
func Recent(tickets []domain.Ticket, n int) []domain.Ticket {
	out := Filter(tickets, TicketQuery{Sort: SortNewest})
	return limit(out, n)
}

// Upcoming returns up to n open tickets scheduled after now, soonest first.
func Upcoming(tickets []domain.Ticket, now time.Time, n int) []domain.Ticket {
	out := Where(tickets, func(t domain.Ticket) bool {
		return t.ScheduledDate != nil && t.ScheduledDate.After(now) && !t.Status.Completed()
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledDate.Before(*out[j].ScheduledDate) })
	return limit(out, n)
}

// ScheduleForDay returns tickets scheduled on the calendar day of day, in
// day's location, ordered by time.
func ScheduleForDay(tickets []domain.Ticket, day time.Time) []domain.Ticket {
	y, m, d := day.Date()
	out := Where(tickets, func(t domain.Ticket) bool {
		if t.ScheduledDate == nil {
			return false
		}
		sy, sm, sd := t.ScheduledDate.In(day.Location()).Date()
		return sy == y && sm == m && sd == d
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledDate.Before(*out[j].ScheduledDate) })
	return out
}

func limit(tickets []domain.Ticket, n int) []domain.Ticket {
	if n >= 0 && len(tickets) > n {
		return tickets[:n]
	}
	return tickets
}

// Package projection derives read-only views from a ticket snapshot. Every
// function is pure and preserves the relative order of its input unless it
// sorts explicitly.
package projection

import (
	"sort"
	"strings"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// Sort orders accepted by Filter.
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPriority = "priority"
	SortStatus   = "status"
)

// TicketQuery narrows a ticket list. Empty fields match everything.
type TicketQuery struct {
	CreatedBy  string
	AssignedTo string
	PropertyID string
	Status     domain.TicketStatus
	Priority   domain.TicketPriority
	Category   domain.TicketCategory
	Search     string
	Sort       string
}

// ValidSort reports whether sort is empty or a known order.
func ValidSort(sort string) bool {
	switch sort {
	case "", SortNewest, SortOldest, SortPriority, SortStatus:
		return true
	default:
		return false
	}
}

// Where returns the tickets matching pred.
func Where(tickets []domain.Ticket, pred func(domain.Ticket) bool) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// ByUser returns tickets created by userID.
func ByUser(tickets []domain.Ticket, userID string) []domain.Ticket {
	return Where(tickets, func(t domain.Ticket) bool { return t.CreatedBy == userID })
}

// ByProperty returns tickets at propertyID.
func ByProperty(tickets []domain.Ticket, propertyID string) []domain.Ticket {
	return Where(tickets, func(t domain.Ticket) bool { return t.PropertyID == propertyID })
}

// ByStatus returns tickets currently in status.
func ByStatus(tickets []domain.Ticket, status domain.TicketStatus) []domain.Ticket {
	return Where(tickets, func(t domain.Ticket) bool { return t.Status == status })
}

// ByAssignee returns tickets assigned to staffID.
func ByAssignee(tickets []domain.Ticket, staffID string) []domain.Ticket {
	return Where(tickets, func(t domain.Ticket) bool { return t.IsAssignedTo(staffID) })
}

// ScopeFor returns the tickets an actor works with: tenants see what they
// raised, staff what is assigned to them, managers everything.
func ScopeFor(tickets []domain.Ticket, actor domain.Actor) []domain.Ticket {
	switch actor.Role {
	case domain.RoleTenant:
		return ByUser(tickets, actor.ID)
	case domain.RoleStaff:
		return ByAssignee(tickets, actor.ID)
	default:
		return Where(tickets, func(domain.Ticket) bool { return true })
	}
}

// Filter applies q to tickets.
func Filter(tickets []domain.Ticket, q TicketQuery) []domain.Ticket {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := Where(tickets, func(t domain.Ticket) bool {
		if q.CreatedBy != "" && t.CreatedBy != q.CreatedBy {
			return false
		}
		if q.AssignedTo != "" && !t.IsAssignedTo(q.AssignedTo) {
			return false
		}
		if q.PropertyID != "" && t.PropertyID != q.PropertyID {
			return false
		}
		if q.Status != "" && t.Status != q.Status {
			return false
		}
		if q.Priority != "" && t.Priority != q.Priority {
			return false
		}
		if q.Category != "" && t.Category != q.Category {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			return false
		}
		return true
	})

	switch q.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.Rank() < out[j].Priority.Rank() })
	case SortStatus:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Status.Rank() < out[j].Status.Rank() })
	}
	return out
}

package projection

import (
	"sort"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// ResolutionRate is the share of tickets that are resolved or closed. It is
// 0 for an empty set.
func ResolutionRate(tickets []domain.Ticket) float64 {
	if len(tickets) == 0 {
		return 0
	}
	return float64(len(Completed(tickets))) / float64(len(tickets))
}

// AverageResolutionHours is the mean time from creation to completion over
// completed tickets, falling back to updatedAt when completedDate is unset.
func AverageResolutionHours(tickets []domain.Ticket) float64 {
	completed := Completed(tickets)
	if len(completed) == 0 {
		return 0
	}
	var total float64
	for _, t := range completed {
		end := t.UpdatedAt
		if t.CompletedDate != nil {
			end = *t.CompletedDate
		}
		total += end.Sub(t.CreatedAt).Hours()
	}
	return total / float64(len(completed))
}

// CategoryDistribution counts tickets per category. Every category is present.
func CategoryDistribution(tickets []domain.Ticket) map[domain.TicketCategory]int {
	out := make(map[domain.TicketCategory]int, len(domain.TicketCategories))
	for _, c := range domain.TicketCategories {
		out[c] = 0
	}
	for _, t := range tickets {
		out[t.Category]++
	}
	return out
}

func StatusDistribution(tickets []domain.Ticket) map[domain.TicketStatus]int {
	out := make(map[domain.TicketStatus]int, len(domain.TicketStatuses))
	for _, s := range domain.TicketStatuses {
		out[s] = 0
	}
	for _, t := range tickets {
		out[t.Status]++
	}
	return out
}

func PriorityDistribution(tickets []domain.Ticket) map[domain.TicketPriority]int {
	out := make(map[domain.TicketPriority]int, len(domain.TicketPriorities))
	for _, p := range domain.TicketPriorities {
		out[p] = 0
	}
	for _, t := range tickets {
		out[t.Priority]++
	}
	return out
}

// TotalCost sums cost over tickets that carry one.
func TotalCost(tickets []domain.Ticket) float64 {
	var total float64
	for _, t := range tickets {
		if t.Cost != nil {
			total += *t.Cost
		}
	}
	return total
}

// CostByCategory sums cost per category, omitting categories with no cost.
func CostByCategory(tickets []domain.Ticket) map[domain.TicketCategory]float64 {
	out := make(map[domain.TicketCategory]float64)
	for _, t := range tickets {
		if t.Cost != nil && *t.Cost > 0 {
			out[t.Category] += *t.Cost
		}
	}
	return out
}

// AverageCostPerResolved divides the cost of completed tickets by their count.
func AverageCostPerResolved(tickets []domain.Ticket) float64 {
	completed := Completed(tickets)
	if len(completed) == 0 {
		return 0
	}
	return TotalCost(completed) / float64(len(completed))
}

// AverageSatisfaction is the mean feedback rating, 0 when nobody rated.
func AverageSatisfaction(tickets []domain.Ticket) float64 {
	var sum, count int
	for _, t := range tickets {
		if t.Feedback != nil {
			sum += t.Feedback.Rating
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// StaffLoad summarizes one staff member's assignments.
type StaffLoad struct {
	StaffID                string  `json:"staffId"`
	Name                   string  `json:"name"`
	TotalAssigned          int     `json:"totalAssigned"`
	Completed              int     `json:"completed"`
	CurrentLoad            int     `json:"currentLoad"`
	AverageResolutionHours float64 `json:"averageResolutionHours"`
	AverageRating          float64 `json:"averageRating"`
}

// StaffWorkload computes a StaffLoad for every staff member, in roster order.
func StaffWorkload(tickets []domain.Ticket, staff []domain.Staff) []StaffLoad {
	out := make([]StaffLoad, 0, len(staff))
	for _, s := range staff {
		assigned := ByAssignee(tickets, s.ID)
		completed := Completed(assigned)
		out = append(out, StaffLoad{
			StaffID:                s.ID,
			Name:                   s.Name,
			TotalAssigned:          len(assigned),
			Completed:              len(completed),
			CurrentLoad:            len(assigned) - len(completed),
			AverageResolutionHours: AverageResolutionHours(completed),
			AverageRating:          AverageSatisfaction(completed),
		})
	}
	return out
}

// OrderByLoad sorts staff by open assignments, fewest first, then by id.
func OrderByLoad(tickets []domain.Ticket, staff []domain.Staff) []domain.Staff {
	load := make(map[string]int, len(staff))
	for _, l := range StaffWorkload(tickets, staff) {
		load[l.StaffID] = l.CurrentLoad
	}
	out := append([]domain.Staff(nil), staff...)
	sort.SliceStable(out, func(i, j int) bool {
		if load[out[i].ID] != load[out[j].ID] {
			return load[out[i].ID] < load[out[j].ID]
		}
		return out[i].ID < out[j].ID
	})
	return out
}

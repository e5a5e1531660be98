package projection

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/maintenance-service/internal/domain"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func mk(id, createdBy string, status domain.TicketStatus, hoursIn int) domain.Ticket {
	created := base.Add(time.Duration(hoursIn) * time.Hour)
	return domain.Ticket{
		ID:          id,
		Title:       "ticket " + id,
		Description: "description " + id,
		Category:    domain.CategoryPlumbing,
		Priority:    domain.TicketPriorityMedium,
		Status:      status,
		CreatedBy:   createdBy,
		PropertyID:  "p1",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func ids(tickets []domain.Ticket) []string {
	out := make([]string, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func TestByStatusKeepsSnapshotOrder(t *testing.T) {
	var tickets []domain.Ticket
	var want []string
	for i := 0; i < 20; i++ {
		status := domain.TicketStatusNew
		if i%4 == 1 {
			status = domain.TicketStatusResolved
			want = append(want, fmt.Sprintf("t%02d", i))
		}
		tickets = append(tickets, mk(fmt.Sprintf("t%02d", i), "u1", status, 20-i))
	}

	got := ByStatus(tickets, domain.TicketStatusResolved)
	require.Len(t, got, 5)
	assert.Equal(t, want, ids(got))
}

func TestByUserMatchesCreator(t *testing.T) {
	tickets := []domain.Ticket{
		mk("a", "u1", domain.TicketStatusNew, 0),
		mk("b", "u2", domain.TicketStatusNew, 1),
		mk("c", "u1", domain.TicketStatusClosed, 2),
		mk("d", "u3", domain.TicketStatusNew, 3),
		mk("e", "u1", domain.TicketStatusAssigned, 4),
	}

	assert.Equal(t, []string{"a", "c", "e"}, ids(ByUser(tickets, "u1")))
	assert.Empty(t, ByUser(tickets, "nobody"))

	tickets[1].PropertyID = "p2"
	assert.Equal(t, []string{"b"}, ids(ByProperty(tickets, "p2")))
}

func TestEmptyAggregatesAreZero(t *testing.T) {
	assert.Zero(t, ResolutionRate(nil))
	assert.Zero(t, AverageResolutionHours(nil))
	assert.Zero(t, AverageSatisfaction(nil))
	assert.Zero(t, AverageCostPerResolved(nil))
	assert.Zero(t, TotalCost(nil))

	open := []domain.Ticket{mk("a", "u1", domain.TicketStatusNew, 0)}
	assert.Zero(t, AverageResolutionHours(open))
	assert.Zero(t, ResolutionRate(open))
}

func TestAggregates(t *testing.T) {
	resolved := mk("a", "u1", domain.TicketStatusResolved, 0)
	resolved.CompletedDate = ptr(resolved.CreatedAt.Add(10 * time.Hour))
	resolved.Cost = ptr(120.0)
	resolved.Feedback = &domain.Feedback{Rating: 4}

	closed := mk("b", "u1", domain.TicketStatusClosed, 0)
	closed.UpdatedAt = closed.CreatedAt.Add(20 * time.Hour)
	closed.Cost = ptr(80.0)
	closed.Feedback = &domain.Feedback{Rating: 2}
	closed.Category = domain.CategoryHVAC

	open := mk("c", "u1", domain.TicketStatusInProgress, 0)
	open.Cost = ptr(50.0)
	open.Priority = domain.TicketPriorityUrgent

	open2 := mk("d", "u2", domain.TicketStatusNew, 0)

	tickets := []domain.Ticket{resolved, closed, open, open2}

	assert.InDelta(t, 0.5, ResolutionRate(tickets), 1e-9)
	assert.InDelta(t, 15.0, AverageResolutionHours(tickets), 1e-9)
	assert.InDelta(t, 250.0, TotalCost(tickets), 1e-9)
	assert.InDelta(t, 100.0, AverageCostPerResolved(tickets), 1e-9)
	assert.InDelta(t, 3.0, AverageSatisfaction(tickets), 1e-9)

	byCategory := CategoryDistribution(tickets)
	assert.Equal(t, 3, byCategory[domain.CategoryPlumbing])
	assert.Equal(t, 1, byCategory[domain.CategoryHVAC])
	assert.Equal(t, 0, byCategory[domain.CategoryPest])
	assert.Len(t, byCategory, len(domain.TicketCategories))

	assert.Equal(t, map[domain.TicketCategory]float64{
		domain.CategoryPlumbing: 170,
		domain.CategoryHVAC:     80,
	}, CostByCategory(tickets))

	assert.Equal(t, 1, StatusDistribution(tickets)[domain.TicketStatusNew])
	assert.Equal(t, 1, PriorityDistribution(tickets)[domain.TicketPriorityUrgent])
	assert.Equal(t, []string{"c"}, ids(UrgentOpen(tickets)))
}

func TestFilterAndSort(t *testing.T) {
	a := mk("a", "u1", domain.TicketStatusClosed, 0)
	a.Priority = domain.TicketPriorityLow
	b := mk("b", "u1", domain.TicketStatusNew, 2)
	b.Priority = domain.TicketPriorityUrgent
	b.Title = "Leaky faucet"
	c := mk("c", "u2", domain.TicketStatusInProgress, 1)
	c.Priority = domain.TicketPriorityHigh
	c.Description = "faucet drips at night"
	c.AssignedTo = ptr("s1")

	tickets := []domain.Ticket{a, b, c}

	assert.Equal(t, []string{"b", "c", "a"}, ids(Filter(tickets, TicketQuery{Sort: SortNewest})))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Filter(tickets, TicketQuery{Sort: SortOldest})))
	assert.Equal(t, []string{"b", "c", "a"}, ids(Filter(tickets, TicketQuery{Sort: SortPriority})))
	assert.Equal(t, []string{"b", "c", "a"}, ids(Filter(tickets, TicketQuery{Sort: SortStatus})))
	assert.Equal(t, []string{"b", "c"}, ids(Filter(tickets, TicketQuery{Search: "FAUCET"})))
	assert.Equal(t, []string{"c"}, ids(Filter(tickets, TicketQuery{AssignedTo: "s1"})))
	assert.Equal(t, []string{"a", "b"}, ids(Filter(tickets, TicketQuery{CreatedBy: "u1"})))
	assert.Equal(t, []string{"a", "b", "c"}, ids(tickets), "input must not be reordered")

	assert.True(t, ValidSort(""))
	assert.False(t, ValidSort("random"))
}

func TestScheduleViews(t *testing.T) {
	now := base.Add(48 * time.Hour)

	soon := mk("soon", "u1", domain.TicketStatusAssigned, 0)
	soon.AssignedTo = ptr("s1")
	soon.ScheduledDate = ptr(now.Add(2 * time.Hour))

	later := mk("later", "u1", domain.TicketStatusAssigned, 1)
	later.AssignedTo = ptr("s1")
	later.ScheduledDate = ptr(now.Add(72 * time.Hour))

	past := mk("past", "u1", domain.TicketStatusInProgress, 2)
	past.AssignedTo = ptr("s1")
	past.ScheduledDate = ptr(now.Add(-time.Hour))

	done := mk("done", "u1", domain.TicketStatusResolved, 3)
	done.AssignedTo = ptr("s1")
	done.ScheduledDate = ptr(now.Add(time.Hour))

	tickets := []domain.Ticket{later, soon, past, done}

	assert.Equal(t, []string{"soon", "later"}, ids(Upcoming(tickets, now, 3)))
	assert.Equal(t, []string{"soon"}, ids(Upcoming(tickets, now, 1)))
	assert.Equal(t, []string{"past", "done", "soon"}, ids(ScheduleForDay(tickets, now)))
	assert.Equal(t, []string{"past"}, ids(Deadlines(tickets, now)))
	assert.Equal(t, []string{"later", "soon", "past"}, ids(ActiveForStaff(tickets, "s1")))
	assert.Equal(t, []string{"done", "past"}, ids(Recent(tickets, 2)))
}

func TestStaffWorkloadAndOrdering(t *testing.T) {
	staff := []domain.Staff{{ID: "s2", Name: "B"}, {ID: "s1", Name: "A"}, {ID: "s3", Name: "C"}}

	busy := mk("a", "u1", domain.TicketStatusInProgress, 0)
	busy.AssignedTo = ptr("s2")
	finished := mk("b", "u1", domain.TicketStatusClosed, 0)
	finished.AssignedTo = ptr("s1")
	finished.CompletedDate = ptr(finished.CreatedAt.Add(4 * time.Hour))
	finished.Feedback = &domain.Feedback{Rating: 5}

	tickets := []domain.Ticket{busy, finished}

	load := StaffWorkload(tickets, staff)
	require.Len(t, load, 3)
	assert.Equal(t, StaffLoad{StaffID: "s2", Name: "B", TotalAssigned: 1, CurrentLoad: 1}, load[0])
	assert.Equal(t, StaffLoad{StaffID: "s1", Name: "A", TotalAssigned: 1, Completed: 1, AverageResolutionHours: 4, AverageRating: 5}, load[1])

	ordered := OrderByLoad(tickets, staff)
	assert.Equal(t, "s1", ordered[0].ID)
	assert.Equal(t, "s3", ordered[1].ID)
	assert.Equal(t, "s2", ordered[2].ID)
}

func TestBuildDashboardScopesByRole(t *testing.T) {
	now := base.Add(24 * time.Hour)
	mine := mk("mine", "u1", domain.TicketStatusNew, 0)
	theirs := mk("theirs", "u2", domain.TicketStatusAssigned, 1)
	theirs.AssignedTo = ptr("s1")
	theirs.ScheduledDate = ptr(now.Add(time.Hour))
	tickets := []domain.Ticket{mine, theirs}
	staff := []domain.Staff{{ID: "s1", Name: "Sam"}}

	tenant := BuildDashboard(tickets, staff, domain.Actor{ID: "u1", Role: domain.RoleTenant}, now)
	assert.Equal(t, 1, tenant.Total)
	assert.Equal(t, 1, tenant.Active)
	assert.Nil(t, tenant.Workload)

	worker := BuildDashboard(tickets, staff, domain.Actor{ID: "s1", Role: domain.RoleStaff}, now)
	assert.Equal(t, 1, worker.Total)
	assert.Equal(t, []string{"theirs"}, ids(worker.Today))
	assert.Equal(t, []string{"theirs"}, ids(worker.Upcoming))

	manager := BuildDashboard(tickets, staff, domain.Actor{ID: "m1", Role: domain.RoleManager}, now)
	assert.Equal(t, 2, manager.Total)
	assert.Equal(t, 2, manager.Active)
	require.Len(t, manager.Workload, 1)
	assert.Equal(t, 1, manager.Workload[0].CurrentLoad)

	empty := BuildDashboard(nil, nil, domain.Actor{ID: "m1", Role: domain.RoleManager}, now)
	assert.Zero(t, empty.ResolutionRate)
	assert.Zero(t, empty.AverageResolutionHours)
}

func TestBuildDashboardHidesPrivateNotesFromTenants(t *testing.T) {
	now := base.Add(24 * time.Hour)
	mine := mk("mine", "u1", domain.TicketStatusAssigned, 0)
	mine.AssignedTo = ptr("s1")
	mine.ScheduledDate = ptr(now.Add(2 * time.Hour))
	mine.Notes = []domain.TicketNote{
		{ID: "n1", TicketID: "mine", CreatedBy: "s1", Text: "parts ordered"},
		{ID: "n2", TicketID: "mine", CreatedBy: "m1", Text: "tenant is difficult", IsPrivate: true},
	}
	tickets := []domain.Ticket{mine}

	tenant := BuildDashboard(tickets, nil, domain.Actor{ID: "u1", Role: domain.RoleTenant}, now)
	require.Len(t, tenant.Recent, 1)
	require.Len(t, tenant.Upcoming, 1)
	for _, list := range [][]domain.Ticket{tenant.Recent, tenant.Upcoming} {
		require.Len(t, list[0].Notes, 1)
		assert.Equal(t, "n1", list[0].Notes[0].ID)
	}
	assert.Len(t, tickets[0].Notes, 2, "snapshot must not be modified")

	manager := BuildDashboard(tickets, nil, domain.Actor{ID: "m1", Role: domain.RoleManager}, now)
	require.Len(t, manager.Recent, 1)
	assert.Len(t, manager.Recent[0].Notes, 2)
}

func TestBuildDashboardListsStaffDeadlines(t *testing.T) {
	now := base.Add(24 * time.Hour)
	overdue := mk("overdue", "u1", domain.TicketStatusInProgress, 0)
	overdue.AssignedTo = ptr("s1")
	overdue.ScheduledDate = ptr(now.Add(-time.Hour))
	urgent := mk("urgent", "u2", domain.TicketStatusAssigned, 1)
	urgent.AssignedTo = ptr("s1")
	urgent.Priority = domain.TicketPriorityUrgent
	calm := mk("calm", "u3", domain.TicketStatusAssigned, 2)
	calm.AssignedTo = ptr("s1")
	calm.ScheduledDate = ptr(now.Add(48 * time.Hour))

	worker := BuildDashboard([]domain.Ticket{overdue, urgent, calm}, nil, domain.Actor{ID: "s1", Role: domain.RoleStaff}, now)
	assert.Equal(t, []string{"urgent", "overdue"}, ids(worker.Deadlines))
}

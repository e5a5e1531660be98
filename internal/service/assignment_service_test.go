package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/maintenance-service/internal/domain"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

func staffIDs(staff []domain.Staff) []string {
	out := make([]string, 0, len(staff))
	for _, s := range staff {
		out = append(out, s.ID)
	}
	return out
}

func TestEligibleStaff(t *testing.T) {
	h := newHarness(t)

	plumbing, err := h.assignments.EligibleStaff(domain.CategoryPlumbing)
	require.NoError(t, err)
	assert.Equal(t, []string{"staff-2", "staff-3"}, staffIDs(plumbing))

	pest, err := h.assignments.EligibleStaff(domain.CategoryPest)
	require.NoError(t, err)
	assert.Empty(t, pest, "unavailable staff are excluded")

	anyCategory, err := h.assignments.EligibleStaff("")
	require.NoError(t, err)
	assert.Equal(t, []string{"staff-2", "staff-3"}, staffIDs(anyCategory))

	_, err = h.assignments.EligibleStaff("gardening")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAssignChecksStaffAndSchedule(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ticket := h.createTicket(t)
	future := h.clock.Now().Add(24 * time.Hour)

	_, err := h.assignments.Assign(ctx, manager, ticket.ID, "ghost", future)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = h.assignments.Assign(ctx, manager, ticket.ID, "staff-4", future)
	assert.True(t, apperrors.IsConflict(err), "unavailable")

	hvac := domain.CategoryHVAC
	_, err = h.tickets.Update(ctx, manager, ticket.ID, TicketPatch{Category: &hvac})
	require.NoError(t, err)
	_, err = h.assignments.Assign(ctx, manager, ticket.ID, "staff-2", future)
	assert.True(t, apperrors.IsConflict(err), "lacks specialty")

	_, err = h.assignments.Assign(ctx, manager, ticket.ID, "staff-3", h.clock.Now())
	assert.True(t, apperrors.IsValidation(err), "now is not in the future")

	_, err = h.assignments.Assign(ctx, manager, ticket.ID, "staff-3", h.clock.Now().Add(-time.Minute))
	assert.True(t, apperrors.IsValidation(err))

	_, err = h.assignments.Assign(ctx, manager, "missing", "staff-3", future)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = h.assignments.Assign(ctx, tenant, ticket.ID, "staff-3", future)
	assert.True(t, apperrors.IsForbidden(err))

	stored, err := h.tickets.GetTicket(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusNew, stored.Status)

	assigned, err := h.assignments.Assign(ctx, manager, ticket.ID, "staff-3", future)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, assigned.Status)
	assert.True(t, assigned.IsAssignedTo("staff-3"))
	assert.True(t, future.Equal(*assigned.ScheduledDate))

	// last write wins
	later := future.Add(24 * time.Hour)
	reassigned, err := h.assignments.Assign(ctx, manager, ticket.ID, "staff-3", later)
	require.NoError(t, err)
	assert.True(t, later.Equal(*reassigned.ScheduledDate))
}

func TestSuggestAndAutoAssign(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	future := h.clock.Now().Add(24 * time.Hour)

	busy := h.createTicket(t)
	_, err := h.assignments.Assign(ctx, manager, busy.ID, "staff-2", future)
	require.NoError(t, err)

	next := h.createTicket(t)
	suggested, err := h.assignments.Suggest(next.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"staff-3", "staff-2"}, staffIDs(suggested))

	auto, err := h.assignments.AutoAssign(ctx, manager, next.ID, future)
	require.NoError(t, err)
	assert.True(t, auto.IsAssignedTo("staff-3"))

	// both now carry one open ticket; ties go to the lower id
	third := h.createTicket(t)
	suggested, err = h.assignments.Suggest(third.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"staff-2", "staff-3"}, staffIDs(suggested))

	pest := h.createTicket(t)
	category := domain.CategoryPest
	_, err = h.tickets.Update(ctx, manager, pest.ID, TicketPatch{Category: &category})
	require.NoError(t, err)
	_, err = h.assignments.AutoAssign(ctx, manager, pest.ID, future)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAssignTask(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	future := h.clock.Now().Add(2 * time.Hour)

	task := TaskInput{
		Title:       "Replace hallway bulbs",
		Description: "Third floor hallway is dark",
		Category:    domain.CategoryElectrical,
		PropertyID:  "p1",
	}

	ticket, err := h.assignments.AssignTask(ctx, manager, task, "staff-2", future)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAssigned, ticket.Status)
	assert.Equal(t, "m1", ticket.CreatedBy)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.True(t, ticket.IsAssignedTo("staff-2"))

	_, err = h.assignments.AssignTask(ctx, manager, task, "staff-3", future)
	assert.True(t, apperrors.IsConflict(err), "staff-3 does not do electrical")

	untyped := task
	untyped.Category = ""
	general, err := h.assignments.AssignTask(ctx, manager, untyped, "staff-3", future)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, general.Category)

	_, err = h.assignments.AssignTask(ctx, staffActor, task, "staff-2", future)
	assert.True(t, apperrors.IsForbidden(err))

	assert.Len(t, h.tickets.Snapshot(), 2, "rejected tasks never create tickets")
}

func TestAssignTaskRemovesTicketWhenAssignmentFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ticketWrites := 0
	h.store.failSave = func(key string) bool {
		if key != "tickets" {
			return false
		}
		ticketWrites++
		return ticketWrites == 2
	}

	_, err := h.assignments.AssignTask(ctx, manager, TaskInput{
		Title:       "Replace hallway bulbs",
		Description: "Third floor hallway is dark",
		Category:    domain.CategoryElectrical,
		PropertyID:  "p1",
	}, "staff-2", h.clock.Now().Add(2*time.Hour))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))

	assert.Equal(t, 3, ticketWrites, "create, failed assign, cleanup")
	assert.Empty(t, h.tickets.Snapshot())
}

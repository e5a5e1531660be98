package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/maintenance-service/internal/auth"
	"github.com/propdesk/maintenance-service/internal/projection"
	"github.com/propdesk/maintenance-service/internal/service"
)

// StatsHandler serves dashboard aggregates.
type StatsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
	now         func() time.Time
}

// NewStatsHandler creates handler. A nil clock means time.Now.
func NewStatsHandler(tickets *service.TicketService, assignments *service.AssignmentService, clock func() time.Time) *StatsHandler {
	if clock == nil {
		clock = time.Now
	}
	return &StatsHandler{tickets: tickets, assignments: assignments, now: clock}
}

// Dashboard GET /stats/dashboard, scoped to the caller's role.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	dashboard := projection.BuildDashboard(h.tickets.Snapshot(), h.assignments.Staff(), actor, h.now())
	return c.JSON(fiber.Map{"data": dashboard})
}

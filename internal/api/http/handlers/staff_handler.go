package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/service"
)

// StaffHandler serves the staff directory.
type StaffHandler struct {
	assignments *service.AssignmentService
}

// NewStaffHandler creates handler.
func NewStaffHandler(assignments *service.AssignmentService) *StaffHandler {
	return &StaffHandler{assignments: assignments}
}

// ListStaff GET /staff. With ?category= only eligible staff are returned.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		return c.JSON(fiber.Map{"data": h.assignments.Staff()})
	}
	staff, err := h.assignments.EligibleStaff(domain.TicketCategory(category))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staff})
}

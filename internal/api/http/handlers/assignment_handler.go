package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/maintenance-service/internal/api/dto"
	"github.com/propdesk/maintenance-service/internal/auth"
	"github.com/propdesk/maintenance-service/internal/service"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

// AssignmentHandler exposes staff selection and scheduling.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// AssignTicket POST /tickets/:id/assign.
func (h *AssignmentHandler) AssignTicket(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Assign(c.UserContext(), actor, c.Params("id"), req.StaffID, req.ScheduledDate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// AutoAssign POST /tickets/:id/auto-assign.
func (h *AssignmentHandler) AutoAssign(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AutoAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AutoAssign(c.UserContext(), actor, c.Params("id"), req.ScheduledDate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// EligibleStaff GET /tickets/:id/eligible-staff, ordered by open workload.
func (h *AssignmentHandler) EligibleStaff(c *fiber.Ctx) error {
	staff, err := h.service.Suggest(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staff})
}

// AssignTask POST /tasks/assign.
func (h *AssignmentHandler) AssignTask(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AssignTask(c.UserContext(), actor, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		PropertyID:  req.PropertyID,
		UnitNumber:  req.UnitNumber,
	}, req.StaffID, req.ScheduledDate)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

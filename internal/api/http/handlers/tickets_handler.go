package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/maintenance-service/internal/api/dto"
	"github.com/propdesk/maintenance-service/internal/auth"
	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/projection"
	"github.com/propdesk/maintenance-service/internal/service"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler creates handler.
func NewTicketsHandler(svc *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: svc}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.UserContext(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		CreatedBy:   req.CreatedBy,
		PropertyID:  req.PropertyID,
		UnitNumber:  req.UnitNumber,
		Images:      req.Images,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(actor, parseTicketQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Get(actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Update(c.UserContext(), actor, c.Params("id"), service.TicketPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		PropertyID:  req.PropertyID,
		UnitNumber:  req.UnitNumber,
		Images:      req.Images,
		Cost:        req.Cost,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ChangeStatus POST /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), actor, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// AddNote POST /tickets/:id/notes.
func (h *TicketsHandler) AddNote(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	note, err := h.service.AddNote(c.UserContext(), actor, c.Params("id"), service.NoteInput{
		Text:      req.Text,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": note})
}

// AddFeedback POST /tickets/:id/feedback.
func (h *TicketsHandler) AddFeedback(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AddFeedback(c.UserContext(), actor, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

func parseTicketQuery(c *fiber.Ctx) projection.TicketQuery {
	return projection.TicketQuery{
		CreatedBy:  strings.TrimSpace(c.Query("createdBy")),
		AssignedTo: strings.TrimSpace(c.Query("assignedTo")),
		PropertyID: strings.TrimSpace(c.Query("propertyId")),
		Status:     domain.TicketStatus(strings.TrimSpace(c.Query("status"))),
		Priority:   domain.TicketPriority(strings.TrimSpace(c.Query("priority"))),
		Category:   domain.TicketCategory(strings.TrimSpace(c.Query("category"))),
		Search:     c.Query("q"),
		Sort:       strings.TrimSpace(c.Query("sort")),
	}
}

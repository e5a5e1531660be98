package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/maintenance-service/internal/api/dto"
	"github.com/propdesk/maintenance-service/internal/auth"
	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/service"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

// NotificationsHandler serves the alert feed.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler creates handler.
func NewNotificationsHandler(svc *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: svc}
}

// ListNotifications GET /notifications.
func (h *NotificationsHandler) ListNotifications(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	return h.respondFeed(c, actor)
}

// CreateNotification POST /notifications.
func (h *NotificationsHandler) CreateNotification(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	notification, err := h.service.Add(c.UserContext(), actor, service.NotificationInput{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": notification})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkAsRead(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return h.respondFeed(c, actor)
}

// MarkAllRead POST /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkAllAsRead(c.UserContext(), actor); err != nil {
		return err
	}
	return h.respondFeed(c, actor)
}

// ClearNotifications DELETE /notifications.
func (h *NotificationsHandler) ClearNotifications(c *fiber.Ctx) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Clear(c.UserContext(), actor); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *NotificationsHandler) respondFeed(c *fiber.Ctx, actor domain.Actor) error {
	feed, err := h.service.Feed(actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feed})
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/propdesk/maintenance-service/internal/api/http/handlers"
	"github.com/propdesk/maintenance-service/internal/auth"
	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Assignments    *handlers.AssignmentHandler
	Staff          *handlers.StaffHandler
	Stats          *handlers.StatsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
	// Metrics is optional; /metrics is only mounted when set.
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	managerOnly := auth.RequireRole(domain.RoleManager)
	staffOrManager := auth.RequireRole(domain.RoleStaff, domain.RoleManager)

	tickets := protected.Group("/tickets")
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", managerOnly, cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/status", staffOrManager, cfg.Tickets.ChangeStatus)
	tickets.Post("/:id/notes", cfg.Tickets.AddNote)
	tickets.Post("/:id/feedback", cfg.Tickets.AddFeedback)
	tickets.Post("/:id/assign", managerOnly, cfg.Assignments.AssignTicket)
	tickets.Post("/:id/auto-assign", managerOnly, cfg.Assignments.AutoAssign)
	tickets.Get("/:id/eligible-staff", staffOrManager, cfg.Assignments.EligibleStaff)

	protected.Post("/tasks/assign", managerOnly, cfg.Assignments.AssignTask)
	protected.Get("/staff", cfg.Staff.ListStaff)
	protected.Get("/stats/dashboard", cfg.Stats.Dashboard)

	notifications := protected.Group("/notifications", staffOrManager)
	notifications.Get("", cfg.Notifications.ListNotifications)
	notifications.Post("", managerOnly, cfg.Notifications.CreateNotification)
	notifications.Post("/read-all", managerOnly, cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("", managerOnly, cfg.Notifications.ClearNotifications)
}

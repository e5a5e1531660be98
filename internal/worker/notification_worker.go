package worker

import (
	"go.uber.org/zap"

	"github.com/propdesk/maintenance-service/internal/config"
	"github.com/propdesk/maintenance-service/internal/service"
)

// StartNotificationWorker subscribes the notification feed to ticket events
// when the bridge is enabled.
func StartNotificationWorker(cfg config.NotificationConfig, notificationService *service.NotificationService, logger *zap.Logger) bool {
	if notificationService == nil || !cfg.TicketEvents {
		logger.Info("ticket event notifications disabled")
		return false
	}
	notificationService.RegisterHandlers()
	logger.Info("ticket event notifications enabled")
	return true
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/events"
	"github.com/propdesk/maintenance-service/internal/observability"
	"github.com/propdesk/maintenance-service/internal/repository"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

// lowRatingThreshold is the highest rating that raises a warning.
const lowRatingThreshold = 2

// NotificationService owns the alert feed and, when registered, turns ticket
// events into notifications.
type NotificationService struct {
	repo       repository.NotificationRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	Repo       repository.NotificationRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Clock      func() time.Time
}

// NotificationInput describes an alert to add.
type NotificationInput struct {
	Type    domain.NotificationType
	Title   string
	Message string
}

// Feed is the alert list with its derived unread count.
type Feed struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &NotificationService{
		repo:       deps.Repo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
		now:        clock,
	}
}

// Add prepends an unread notification with a fresh id and timestamp. Only
// managers and the system post to the feed.
func (n *NotificationService) Add(ctx context.Context, actor domain.Actor, input NotificationInput) (domain.Notification, error) {
	if err := authorize(actor, "post notifications", domain.RoleManager); err != nil {
		return domain.Notification{}, err
	}
	if !input.Type.Valid() {
		return domain.Notification{}, apperrors.NewValidationError("invalid notification type", map[string]any{"type": input.Type})
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Notification{}, apperrors.NewValidationError("notification title is required", nil)
	}

	notification := domain.Notification{
		ID:        uuid.NewString(),
		Type:      input.Type,
		Title:     title,
		Message:   strings.TrimSpace(input.Message),
		Read:      false,
		CreatedAt: n.now(),
	}
	if err := n.repo.Prepend(ctx, notification); err != nil {
		return domain.Notification{}, n.repoError(err, notification.ID)
	}
	n.metrics.RecordNotification(string(notification.Type))
	return notification, nil
}

// List returns the feed, most recent first.
func (n *NotificationService) List() []domain.Notification {
	return n.repo.List()
}

// UnreadCount is computed from the current feed on every call.
func (n *NotificationService) UnreadCount() int {
	return unread(n.repo.List())
}

// Feed returns the list and its unread count from the same snapshot. The
// feed carries every tenant's ticket titles, so tenants may not read it.
func (n *NotificationService) Feed(actor domain.Actor) (Feed, error) {
	if err := authorize(actor, "read notifications", domain.RoleStaff, domain.RoleManager); err != nil {
		return Feed{}, err
	}
	list := n.repo.List()
	return Feed{Notifications: list, UnreadCount: unread(list)}, nil
}

func (n *NotificationService) MarkAsRead(ctx context.Context, actor domain.Actor, id string) error {
	if err := authorize(actor, "read notifications", domain.RoleStaff, domain.RoleManager); err != nil {
		return err
	}
	if err := n.repo.MarkRead(ctx, id); err != nil {
		return n.repoError(err, id)
	}
	return nil
}

// MarkAllAsRead and Clear act on the shared feed and are manager only.
func (n *NotificationService) MarkAllAsRead(ctx context.Context, actor domain.Actor) error {
	if err := authorize(actor, "mark all notifications read", domain.RoleManager); err != nil {
		return err
	}
	if err := n.repo.MarkAllRead(ctx); err != nil {
		return n.repoError(err, "")
	}
	return nil
}

func (n *NotificationService) Clear(ctx context.Context, actor domain.Actor) error {
	if err := authorize(actor, "clear notifications", domain.RoleManager); err != nil {
		return err
	}
	if err := n.repo.Clear(ctx); err != nil {
		return n.repoError(err, "")
	}
	return nil
}

// RegisterHandlers subscribes the feed to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketFeedbackAdded, n.handleTicketFeedbackAdded)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return unexpectedPayload(event)
	}
	return n.emit(ctx, event, NotificationInput{
		Type:    domain.NotificationInfo,
		Title:   "New ticket submitted",
		Message: fmt.Sprintf("%s (%s, %s priority)", payload.Title, payload.Category, payload.Priority),
	})
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return unexpectedPayload(event)
	}
	message := fmt.Sprintf("%s was assigned to staff %s", payload.Title, payload.StaffID)
	if payload.ScheduledDate != nil {
		message += " for " + payload.ScheduledDate.Format("Jan 2, 2006 15:04")
	}
	return n.emit(ctx, event, NotificationInput{
		Type:    domain.NotificationInfo,
		Title:   "Ticket assigned",
		Message: message,
	})
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return unexpectedPayload(event)
	}
	if payload.OldStatus == payload.NewStatus {
		return nil
	}

	var kind domain.NotificationType
	var title string
	switch payload.NewStatus {
	case domain.TicketStatusResolved:
		kind, title = domain.NotificationSuccess, "Ticket resolved"
	case domain.TicketStatusClosed:
		kind, title = domain.NotificationSuccess, "Ticket closed"
	case domain.TicketStatusOnHold:
		kind, title = domain.NotificationWarning, "Ticket on hold"
	default:
		return nil
	}
	return n.emit(ctx, event, NotificationInput{
		Type:    kind,
		Title:   title,
		Message: fmt.Sprintf("%s moved from %s to %s", payload.Title, payload.OldStatus, payload.NewStatus),
	})
}

func (n *NotificationService) handleTicketFeedbackAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketFeedbackAddedPayload)
	if !ok {
		return unexpectedPayload(event)
	}
	if payload.Rating > lowRatingThreshold {
		return nil
	}
	return n.emit(ctx, event, NotificationInput{
		Type:    domain.NotificationWarning,
		Title:   "Low satisfaction rating",
		Message: fmt.Sprintf("%s was rated %d/5", payload.Title, payload.Rating),
	})
}

func (n *NotificationService) emit(ctx context.Context, event events.Event, input NotificationInput) error {
	notification, err := n.Add(ctx, domain.SystemActor, input)
	if err != nil {
		return err
	}
	n.logger.Debug("notification emitted",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("notification_id", notification.ID))
	return nil
}

func (n *NotificationService) repoError(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
	case errors.Is(err, repository.ErrPersist):
		n.logger.Error("notification snapshot not persisted", zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return err
}

func unexpectedPayload(event events.Event) error {
	return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
}

func unread(list []domain.Notification) int {
	count := 0
	for _, item := range list {
		if !item.Read {
			count++
		}
	}
	return count
}

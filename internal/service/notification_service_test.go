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

func TestNotificationFeed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	n := h.notifications

	first, err := n.Add(ctx, manager, NotificationInput{Type: domain.NotificationInfo, Title: "Welcome", Message: "hi"})
	require.NoError(t, err)
	assert.False(t, first.Read)
	assert.Equal(t, h.clock.Now(), first.CreatedAt)

	h.clock.Advance(time.Minute)
	second, err := n.Add(ctx, manager, NotificationInput{Type: domain.NotificationError, Title: "Boiler down"})
	require.NoError(t, err)

	feed, err := n.Feed(manager)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 2)
	assert.Equal(t, second.ID, feed.Notifications[0].ID, "most recent first")
	assert.Equal(t, 2, feed.UnreadCount)

	require.NoError(t, n.MarkAsRead(ctx, staffActor, first.ID))
	assert.Equal(t, 1, n.UnreadCount())

	err = n.MarkAsRead(ctx, manager, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, n.MarkAllAsRead(ctx, manager))
	assert.Zero(t, n.UnreadCount())
	assert.Len(t, n.List(), 2)

	require.NoError(t, n.Clear(ctx, manager))
	assert.Empty(t, n.List())
	assert.Zero(t, n.UnreadCount())

	_, err = n.Add(ctx, manager, NotificationInput{Type: "fatal", Title: "x"})
	assert.True(t, apperrors.IsValidation(err))
	_, err = n.Add(ctx, manager, NotificationInput{Type: domain.NotificationInfo})
	assert.True(t, apperrors.IsValidation(err))
}

func TestTicketEventsBecomeNotifications(t *testing.T) {
	h := newHarness(t)
	h.notifications.RegisterHandlers()
	ctx := context.Background()

	ticket := h.createTicket(t)
	future := h.clock.Now().Add(time.Hour)
	_, err := h.assignments.Assign(ctx, manager, ticket.ID, "staff-2", future)
	require.NoError(t, err)
	_, err = h.tickets.ChangeStatus(ctx, staffActor, ticket.ID, domain.TicketStatusInProgress)
	require.NoError(t, err)
	_, err = h.tickets.ChangeStatus(ctx, staffActor, ticket.ID, domain.TicketStatusOnHold)
	require.NoError(t, err)
	_, err = h.tickets.ChangeStatus(ctx, staffActor, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	_, err = h.tickets.AddNote(ctx, staffActor, ticket.ID, NoteInput{Text: "all done"})
	require.NoError(t, err)
	_, err = h.tickets.AddFeedback(ctx, tenant, ticket.ID, 4, nil)
	require.NoError(t, err)
	_, err = h.tickets.AddFeedback(ctx, tenant, ticket.ID, 1, nil)
	require.NoError(t, err)

	var got []string
	for _, item := range h.notifications.List() {
		got = append(got, string(item.Type)+":"+item.Title)
	}
	assert.Equal(t, []string{
		"warning:Low satisfaction rating",
		"success:Ticket resolved",
		"warning:Ticket on hold",
		"info:Ticket assigned",
		"info:New ticket submitted",
	}, got)
}

func TestNotificationFeedIsGuardedByRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	n := h.notifications

	posted, err := n.Add(ctx, manager, NotificationInput{Type: domain.NotificationWarning, Title: "Boiler audit due"})
	require.NoError(t, err)

	_, err = n.Add(ctx, tenant, NotificationInput{Type: domain.NotificationInfo, Title: "hello"})
	assert.True(t, apperrors.IsForbidden(err))
	_, err = n.Add(ctx, staffActor, NotificationInput{Type: domain.NotificationInfo, Title: "hello"})
	assert.True(t, apperrors.IsForbidden(err))

	_, err = n.Feed(tenant)
	assert.True(t, apperrors.IsForbidden(err))
	assert.True(t, apperrors.IsForbidden(n.MarkAsRead(ctx, tenant, posted.ID)))
	assert.True(t, apperrors.IsForbidden(n.MarkAllAsRead(ctx, staffActor)))
	assert.True(t, apperrors.IsForbidden(n.Clear(ctx, tenant)))
	assert.True(t, apperrors.IsForbidden(n.Clear(ctx, staffActor)))
	assert.True(t, apperrors.HasCode(n.Clear(ctx, domain.Actor{}), apperrors.CodeUnauthorized))

	feed, err := n.Feed(manager)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 1)
	assert.Equal(t, 1, feed.UnreadCount)

	require.NoError(t, n.MarkAsRead(ctx, staffActor, posted.ID))
	assert.Zero(t, n.UnreadCount())
	require.NoError(t, n.Clear(ctx, domain.SystemActor))
	assert.Empty(t, n.List())
}

package repository

import (
	"context"

	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/persistence"
)

const notificationsSnapshotKey = "notifications"

// NotificationRepository keeps the alert feed, most recent first.
type NotificationRepository interface {
	List() []domain.Notification
	Prepend(ctx context.Context, notification domain.Notification) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Clear(ctx context.Context) error
}

type notificationRepository struct {
	feed *snapshot[domain.Notification]
}

func NewNotificationRepository(ctx context.Context, store persistence.SnapshotStore) (NotificationRepository, error) {
	feed, err := newSnapshot[domain.Notification](ctx, store, notificationsSnapshotKey)
	if err != nil {
		return nil, err
	}
	return &notificationRepository{feed: feed}, nil
}

func (r *notificationRepository) List() []domain.Notification {
	return r.feed.load()
}

func (r *notificationRepository) Prepend(ctx context.Context, notification domain.Notification) error {
	return r.feed.apply(ctx, func(current []domain.Notification) ([]domain.Notification, error) {
		next := make([]domain.Notification, 0, len(current)+1)
		next = append(next, notification)
		return append(next, current...), nil
	})
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	return r.feed.apply(ctx, func(current []domain.Notification) ([]domain.Notification, error) {
		next := make([]domain.Notification, len(current))
		copy(next, current)
		for i := range next {
			if next[i].ID == id {
				next[i].Read = true
				return next, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) error {
	return r.feed.apply(ctx, func(current []domain.Notification) ([]domain.Notification, error) {
		next := make([]domain.Notification, len(current))
		copy(next, current)
		for i := range next {
			next[i].Read = true
		}
		return next, nil
	})
}

func (r *notificationRepository) Clear(ctx context.Context) error {
	return r.feed.apply(ctx, func([]domain.Notification) ([]domain.Notification, error) {
		return []domain.Notification{}, nil
	})
}

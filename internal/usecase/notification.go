package usecase

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/domain/repository"
)

// NotificationUseCase exposes the notification queue to the API and the
// dispatch worker.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
}

// NewNotificationUseCase constructs NotificationUseCase.
func NewNotificationUseCase(notifications repository.NotificationRepository, users repository.UserRepository) *NotificationUseCase {
	return &NotificationUseCase{notifications: notifications, users: users}
}

// ListForUser returns the session user's notifications, newest first.
func (u *NotificationUseCase) ListForUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	return u.notifications.ListByRecipient(ctx, userID)
}

// SelectBatchForDispatch claims pending notifications for delivery.
func (u *NotificationUseCase) SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Notification, error) {
	return u.notifications.SelectBatchForDispatch(ctx, limit)
}

// MarkSent records successful delivery.
func (u *NotificationUseCase) MarkSent(ctx context.Context, id int64) error {
	return u.notifications.MarkSent(ctx, id)
}

// MarkFailed records a delivery failure; the row stays for inspection.
func (u *NotificationUseCase) MarkFailed(ctx context.Context, id int64) error {
	return u.notifications.MarkFailed(ctx, id)
}

// RecipientEmail resolves the delivery address for a notification.
func (u *NotificationUseCase) RecipientEmail(ctx context.Context, n model.Notification) (string, error) {
	usr, err := u.users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return "", err
	}
	return usr.Login, nil
}

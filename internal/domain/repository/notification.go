package repository

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// NotificationRepository manages the notification dispatch queue.
type NotificationRepository interface {
	Enqueue(ctx context.Context, n model.Notification) (*model.Notification, error)
	ListByRecipient(ctx context.Context, recipientID int64) ([]model.Notification, error)
	// SelectBatchForDispatch claims up to limit pending notifications so
	// concurrent dispatchers never pick the same row twice.
	SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64) error
}

package repository

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// MediaRepository describes persistence operations with order attachments.
type MediaRepository interface {
	Add(ctx context.Context, orderID int64, url, kind string) (*model.OrderMedia, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.OrderMedia, error)
	CountByOrder(ctx context.Context, orderID int64) (int, error)
}

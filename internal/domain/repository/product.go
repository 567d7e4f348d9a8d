package repository

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// ProductRepository describes persistence operations with order products.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.OrderProduct, error)
	ListByOrder(ctx context.Context, orderID int64) ([]model.OrderProduct, error)
	ItemsByProduct(ctx context.Context, productID int64) ([]model.OrderItem, error)
}

package repository

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// NewProduct describes one product with its quantity lines at order creation.
type NewProduct struct {
	Name              string
	SKU               string
	ManufacturerPrice *float64
	ClientPrice       *float64
	Items             []model.OrderItem
}

// ProductRouteWrite is the routing mutation for a single product.
type ProductRouteWrite struct {
	ProductID int64
	Update    model.ProductRouteUpdate
	RoutedBy  int64
}

// SampleWrite carries the order-level sample mutation applied alongside a
// bulk route. ForceNoSample resets sample_status when the order carries no
// sample data at all.
type SampleWrite struct {
	Update          *model.SampleRouteUpdate
	ClientSampleFee *float64
	ForceNoSample   bool
	AppendNotes     string
	RoutedBy        int64
}

// BulkRouteSet is the complete write set for one bulk routing action. The
// storage layer applies it inside a single transaction: either every product
// update, the sample update, the audit rows and the notification rows commit,
// or none of them do.
type BulkRouteSet struct {
	OrderID       int64
	Products      []ProductRouteWrite
	Sample        SampleWrite
	Audit         []model.AuditEntry
	Notifications []model.Notification
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, clientID int64, manufacturerID *int64, number string, products []NewProduct) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListForClient(ctx context.Context, clientID int64) ([]model.Order, error)
	ListForManufacturer(ctx context.Context, manufacturerID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ApplyBulkRoute(ctx context.Context, set BulkRouteSet) error
	RouteSample(ctx context.Context, orderID int64, update model.SampleRouteUpdate, routedBy int64, appendNotes string, audit model.AuditEntry, notification *model.Notification) error
	SetPaid(ctx context.Context, orderID int64, paid bool) error
}

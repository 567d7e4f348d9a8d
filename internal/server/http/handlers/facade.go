package handlers

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string, role model.Role, clientID *int64) (*model.User, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	ParseToken(ctx context.Context, token string) (*model.Session, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, session model.Session, cmd usecase.CreateOrderCommand) (*model.Order, error)
	Orders(ctx context.Context, session model.Session) ([]model.Order, error)
	Order(ctx context.Context, session model.Session, orderID int64) (*model.Order, error)
	OrderProducts(ctx context.Context, session model.Session, orderID int64) ([]model.OrderProduct, error)
	AuditTrail(ctx context.Context, session model.Session, orderID int64) ([]model.AuditEntry, error)
	SendOrderEmail(ctx context.Context, session model.Session, orderID int64, opts usecase.OrderEmailOptions) (messageID, recipient string, err error)
}

// RoutingFacade applies routing actions to products and samples.
type RoutingFacade interface {
	BulkRoute(ctx context.Context, session model.Session, cmd usecase.BulkRouteCommand) (*usecase.BulkRouteResult, error)
	RouteSample(ctx context.Context, session model.Session, orderID int64, target model.Custodian, notes string) error
}

// InvoiceFacade generates, lists and sends invoices.
type InvoiceFacade interface {
	CreateInvoice(ctx context.Context, session model.Session, cmd usecase.CreateInvoiceCommand) (*model.Invoice, error)
	Invoice(ctx context.Context, session model.Session, id int64) (*model.Invoice, []model.InvoiceItem, error)
	Invoices(ctx context.Context, session model.Session, clientID int64) ([]model.Invoice, error)
	SendInvoice(ctx context.Context, session model.Session, id int64) (messageID, recipient string, err error)
}

// NotificationFacade lists the session user's notifications.
type NotificationFacade interface {
	Notifications(ctx context.Context, userID int64) ([]model.Notification, error)
}

// HealthFacade reports dependency health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// WorkflowFacade aggregates the full set of operations used across handlers.
type WorkflowFacade interface {
	AuthFacade
	OrderFacade
	RoutingFacade
	InvoiceFacade
	NotificationFacade
	HealthFacade
}

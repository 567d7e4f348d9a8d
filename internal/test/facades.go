package test

import (
	"context"
	"sync"

	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, model.Role, *int64) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(context.Context, string) (*model.Session, error)
}

// Register returns a default user for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string, role model.Role, clientID *int64) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, role, clientID)
	}
	return &model.User{ID: 1, Login: login, Role: role, ClientID: clientID}, "token", nil
}

// Authenticate returns a default user for successful login scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.User{ID: 1, Login: login, Role: model.RoleAdmin}, "token", nil
}

// ParseToken returns the stored session for authenticated requests.
func (s AuthFacadeStub) ParseToken(ctx context.Context, token string) (*model.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(ctx, token)
	}
	return &model.Session{UserID: 1, Role: model.RoleAdmin}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateOrderFn   func(context.Context, model.Session, usecase.CreateOrderCommand) (*model.Order, error)
	OrdersFn        func(context.Context, model.Session) ([]model.Order, error)
	OrderFn         func(context.Context, model.Session, int64) (*model.Order, error)
	OrderProductsFn func(context.Context, model.Session, int64) ([]model.OrderProduct, error)
	AuditTrailFn    func(context.Context, model.Session, int64) ([]model.AuditEntry, error)
	SendEmailFn     func(context.Context, model.Session, int64, usecase.OrderEmailOptions) (string, string, error)
}

// CreateOrder delegates to the override or returns a default order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, session model.Session, cmd usecase.CreateOrderCommand) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, session, cmd)
	}
	return &model.Order{ID: 1, Number: "ORD-000001", ClientID: cmd.ClientID}, nil
}

// Orders returns predefined orders for given session.
func (s OrderFacadeStub) Orders(ctx context.Context, session model.Session) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, session)
	}
	return []model.Order{{ID: 1, Number: "ORD-000001"}}, nil
}

// Order returns one order.
func (s OrderFacadeStub) Order(ctx context.Context, session model.Session, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, session, orderID)
	}
	return &model.Order{ID: orderID, Number: "ORD-000001"}, nil
}

// OrderProducts returns predefined products.
func (s OrderFacadeStub) OrderProducts(ctx context.Context, session model.Session, orderID int64) ([]model.OrderProduct, error) {
	if s.OrderProductsFn != nil {
		return s.OrderProductsFn(ctx, session, orderID)
	}
	return []model.OrderProduct{{ID: 1, OrderID: orderID, Name: "widget"}}, nil
}

// AuditTrail returns predefined history.
func (s OrderFacadeStub) AuditTrail(ctx context.Context, session model.Session, orderID int64) ([]model.AuditEntry, error) {
	if s.AuditTrailFn != nil {
		return s.AuditTrailFn(ctx, session, orderID)
	}
	return []model.AuditEntry{{TargetType: "order", TargetID: orderID}}, nil
}

// SendOrderEmail delegates to the override or succeeds.
func (s OrderFacadeStub) SendOrderEmail(ctx context.Context, session model.Session, orderID int64, opts usecase.OrderEmailOptions) (string, string, error) {
	if s.SendEmailFn != nil {
		return s.SendEmailFn(ctx, session, orderID, opts)
	}
	return "msg-1", "client@example.com", nil
}

// RoutingFacadeStub simulates routing operations.
type RoutingFacadeStub struct {
	BulkRouteFn   func(context.Context, model.Session, usecase.BulkRouteCommand) (*usecase.BulkRouteResult, error)
	RouteSampleFn func(context.Context, model.Session, int64, model.Custodian, string) error
}

// BulkRoute executes configured routing handler.
func (s RoutingFacadeStub) BulkRoute(ctx context.Context, session model.Session, cmd usecase.BulkRouteCommand) (*usecase.BulkRouteResult, error) {
	if s.BulkRouteFn != nil {
		return s.BulkRouteFn(ctx, session, cmd)
	}
	return &usecase.BulkRouteResult{Routed: cmd.ProductIDs}, nil
}

// RouteSample executes configured sample handler.
func (s RoutingFacadeStub) RouteSample(ctx context.Context, session model.Session, orderID int64, target model.Custodian, notes string) error {
	if s.RouteSampleFn != nil {
		return s.RouteSampleFn(ctx, session, orderID, target, notes)
	}
	return nil
}

// InvoiceFacadeStub simulates invoice operations.
type InvoiceFacadeStub struct {
	CreateFn   func(context.Context, model.Session, usecase.CreateInvoiceCommand) (*model.Invoice, error)
	InvoiceFn  func(context.Context, model.Session, int64) (*model.Invoice, []model.InvoiceItem, error)
	InvoicesFn func(context.Context, model.Session, int64) ([]model.Invoice, error)
	SendFn     func(context.Context, model.Session, int64) (string, string, error)
}

// CreateInvoice delegates to the override or returns a default invoice.
func (s InvoiceFacadeStub) CreateInvoice(ctx context.Context, session model.Session, cmd usecase.CreateInvoiceCommand) (*model.Invoice, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, session, cmd)
	}
	return &model.Invoice{ID: 1, Number: "INV-00001", Total: 100}, nil
}

// Invoice returns one invoice with lines.
func (s InvoiceFacadeStub) Invoice(ctx context.Context, session model.Session, id int64) (*model.Invoice, []model.InvoiceItem, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, session, id)
	}
	return &model.Invoice{ID: id, Number: "INV-00001", Total: 100},
		[]model.InvoiceItem{{InvoiceID: id, Description: "widget", Quantity: 1, UnitPrice: 100}}, nil
}

// Invoices returns predefined invoices.
func (s InvoiceFacadeStub) Invoices(ctx context.Context, session model.Session, clientID int64) ([]model.Invoice, error) {
	if s.InvoicesFn != nil {
		return s.InvoicesFn(ctx, session, clientID)
	}
	return []model.Invoice{{ID: 1, Number: "INV-00001"}}, nil
}

// SendInvoice delegates to the override or succeeds.
func (s InvoiceFacadeStub) SendInvoice(ctx context.Context, session model.Session, id int64) (string, string, error) {
	if s.SendFn != nil {
		return s.SendFn(ctx, session, id)
	}
	return "msg-1", "billing@example.com", nil
}

// NotificationFacadeStub simulates the notification listing.
type NotificationFacadeStub struct {
	NotificationsFn func(context.Context, int64) ([]model.Notification, error)
}

// Notifications returns predefined rows.
func (s NotificationFacadeStub) Notifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	if s.NotificationsFn != nil {
		return s.NotificationsFn(ctx, userID)
	}
	return []model.Notification{{ID: 1, RecipientID: userID, Subject: "hello"}}, nil
}

// HealthFacadeStub reports configured health state.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck returns the configured error.
func (s HealthFacadeStub) HealthCheck(ctx context.Context) error {
	return s.Err
}

// WorkflowFacadeStub aggregates facade dependencies for HTTP layer tests.
type WorkflowFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	RoutingFacadeStub
	InvoiceFacadeStub
	NotificationFacadeStub
	HealthFacadeStub
}

// DispatchedEmail records a single DeliverEmail invocation.
type DispatchedEmail struct {
	To      string
	Subject string
	Body    string
}

// NotifierFacadeStub mimics worker interactions with the workflow facade.
type NotifierFacadeStub struct {
	Batches   [][]model.Notification
	BatchFn   func(context.Context, int) ([]model.Notification, error)
	EmailFn   func(context.Context, model.Notification) (string, error)
	DeliverFn func(context.Context, string, string, string) (string, error)

	Delivered []DispatchedEmail
	SentIDs   []int64
	FailedIDs []int64

	mu        sync.Mutex
	batchCall int
}

// Lock exposes internal mutex for external synchronization.
func (s *NotifierFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *NotifierFacadeStub) Unlock() { s.mu.Unlock() }

// NotificationsForDispatch returns batches from configured queue.
func (s *NotifierFacadeStub) NotificationsForDispatch(ctx context.Context, limit int) ([]model.Notification, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batchCall < len(s.Batches) {
		batch := s.Batches[s.batchCall]
		s.batchCall++
		return batch, nil
	}
	return nil, nil
}

// NotificationRecipientEmail resolves a deterministic address.
func (s *NotifierFacadeStub) NotificationRecipientEmail(ctx context.Context, n model.Notification) (string, error) {
	if s.EmailFn != nil {
		return s.EmailFn(ctx, n)
	}
	return "user@example.com", nil
}

// DeliverEmail records the outgoing message.
func (s *NotifierFacadeStub) DeliverEmail(ctx context.Context, to, subject, body string) (string, error) {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, to, subject, body)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Delivered = append(s.Delivered, DispatchedEmail{To: to, Subject: subject, Body: body})
	return "msg-1", nil
}

// MarkNotificationSent records the id.
func (s *NotifierFacadeStub) MarkNotificationSent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SentIDs = append(s.SentIDs, id)
	return nil
}

// MarkNotificationFailed records the id.
func (s *NotifierFacadeStub) MarkNotificationFailed(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailedIDs = append(s.FailedIDs, id)
	return nil
}

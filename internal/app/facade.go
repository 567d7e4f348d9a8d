package app

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/adapter/mailer"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/metrics"
	"github.com/orderdesk/orderdesk/internal/server/ws"
	"github.com/orderdesk/orderdesk/internal/usecase"
)

// Pinger reports storage health.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// WorkflowFacade is the application surface consumed by the HTTP layer and
// the dispatch worker. It composes the usecases and owns the cross-cutting
// side effects: metrics and live broadcasts.
type WorkflowFacade struct {
	auth          *usecase.AuthUseCase
	orders        *usecase.OrderUseCase
	routing       *usecase.RoutingUseCase
	samples       *usecase.SampleUseCase
	invoices      *usecase.InvoiceUseCase
	notifications *usecase.NotificationUseCase
	mail          mailer.Client
	hub           *ws.Hub
	metrics       *metrics.Metrics
	pinger        Pinger
}

// NewWorkflowFacade constructs WorkflowFacade.
func NewWorkflowFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	routing *usecase.RoutingUseCase,
	samples *usecase.SampleUseCase,
	invoices *usecase.InvoiceUseCase,
	notifications *usecase.NotificationUseCase,
	mail mailer.Client,
	hub *ws.Hub,
	m *metrics.Metrics,
	pinger Pinger,
) *WorkflowFacade {
	return &WorkflowFacade{
		auth:          auth,
		orders:        orders,
		routing:       routing,
		samples:       samples,
		invoices:      invoices,
		notifications: notifications,
		mail:          mail,
		hub:           hub,
		metrics:       m,
		pinger:        pinger,
	}
}

func (f *WorkflowFacade) Register(ctx context.Context, login, password string, role model.Role, clientID *int64) (*model.User, string, error) {
	return f.auth.Register(ctx, login, password, role, clientID)
}

func (f *WorkflowFacade) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *WorkflowFacade) ParseToken(ctx context.Context, token string) (*model.Session, error) {
	return f.auth.ParseToken(ctx, token)
}

func (f *WorkflowFacade) CreateOrder(ctx context.Context, session model.Session, cmd usecase.CreateOrderCommand) (*model.Order, error) {
	order, err := f.orders.Create(ctx, session, cmd)
	if err != nil {
		return nil, err
	}
	f.hub.Broadcast(ws.Event{Type: "order_created", OrderID: order.ID})
	return order, nil
}

func (f *WorkflowFacade) Orders(ctx context.Context, session model.Session) ([]model.Order, error) {
	return f.orders.List(ctx, session)
}

func (f *WorkflowFacade) Order(ctx context.Context, session model.Session, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, session, orderID)
}

func (f *WorkflowFacade) OrderProducts(ctx context.Context, session model.Session, orderID int64) ([]model.OrderProduct, error) {
	return f.orders.Products(ctx, session, orderID)
}

func (f *WorkflowFacade) AuditTrail(ctx context.Context, session model.Session, orderID int64) ([]model.AuditEntry, error) {
	return f.orders.AuditTrail(ctx, session, orderID)
}

// SendOrderEmail composes and delivers an order summary to the client
// contact. The composed body only ever carries client-facing prices.
func (f *WorkflowFacade) SendOrderEmail(ctx context.Context, session model.Session, orderID int64, opts usecase.OrderEmailOptions) (string, string, error) {
	order, err := f.orders.Get(ctx, session, orderID)
	if err != nil {
		return "", "", err
	}
	products, err := f.orders.Products(ctx, session, orderID)
	if err != nil {
		return "", "", err
	}
	recipient, err := f.orders.ClientEmail(ctx, order)
	if err != nil {
		return "", "", err
	}

	subject, body := usecase.ComposeOrderEmail(order, products, opts)
	messageID, err := f.mail.Send(ctx, mailer.Message{To: recipient, Subject: subject, Body: body})
	if err != nil {
		f.metrics.EmailsFailedTotal.Inc()
		return "", "", err
	}
	f.metrics.EmailsSentTotal.Inc()
	return messageID, recipient, nil
}

func (f *WorkflowFacade) BulkRoute(ctx context.Context, session model.Session, cmd usecase.BulkRouteCommand) (*usecase.BulkRouteResult, error) {
	result, err := f.routing.BulkRoute(ctx, session, cmd)
	if err != nil {
		return result, err
	}
	f.metrics.ProductsRoutedTotal.WithLabelValues(string(cmd.Action)).Add(float64(len(result.Routed)))
	f.hub.Broadcast(ws.Event{Type: "products_routed", OrderID: cmd.OrderID, Action: string(cmd.Action)})
	return result, nil
}

func (f *WorkflowFacade) RouteSample(ctx context.Context, session model.Session, orderID int64, target model.Custodian, notes string) error {
	if err := f.samples.Route(ctx, session, orderID, target, notes); err != nil {
		return err
	}
	f.hub.Broadcast(ws.Event{Type: "sample_routed", OrderID: orderID, Action: string(target)})
	return nil
}

func (f *WorkflowFacade) CreateInvoice(ctx context.Context, session model.Session, cmd usecase.CreateInvoiceCommand) (*model.Invoice, error) {
	invoice, err := f.invoices.Create(ctx, session, cmd)
	if err != nil {
		return nil, err
	}
	f.metrics.InvoicesIssuedTotal.Inc()
	f.hub.Broadcast(ws.Event{Type: "invoice_created", OrderID: cmd.OrderID, ID: invoice.ID})
	return invoice, nil
}

func (f *WorkflowFacade) Invoice(ctx context.Context, session model.Session, id int64) (*model.Invoice, []model.InvoiceItem, error) {
	return f.invoices.Get(ctx, session, id)
}

func (f *WorkflowFacade) Invoices(ctx context.Context, session model.Session, clientID int64) ([]model.Invoice, error) {
	return f.invoices.List(ctx, session, clientID)
}

// SendInvoice emails the invoice to the client's billing address and stamps
// sent_at on success.
func (f *WorkflowFacade) SendInvoice(ctx context.Context, session model.Session, id int64) (string, string, error) {
	invoice, items, err := f.invoices.Get(ctx, session, id)
	if err != nil {
		return "", "", err
	}
	recipient, err := f.invoices.ClientEmail(ctx, invoice)
	if err != nil {
		return "", "", err
	}

	subject, body := usecase.ComposeInvoiceEmail(invoice, items)
	messageID, err := f.mail.Send(ctx, mailer.Message{To: recipient, Subject: subject, Body: body})
	if err != nil {
		f.metrics.EmailsFailedTotal.Inc()
		return "", "", err
	}
	f.metrics.EmailsSentTotal.Inc()

	if err := f.invoices.MarkSent(ctx, id); err != nil {
		return "", "", err
	}
	return messageID, recipient, nil
}

func (f *WorkflowFacade) Notifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	return f.notifications.ListForUser(ctx, userID)
}

func (f *WorkflowFacade) NotificationsForDispatch(ctx context.Context, limit int) ([]model.Notification, error) {
	return f.notifications.SelectBatchForDispatch(ctx, limit)
}

func (f *WorkflowFacade) NotificationRecipientEmail(ctx context.Context, n model.Notification) (string, error) {
	return f.notifications.RecipientEmail(ctx, n)
}

func (f *WorkflowFacade) DeliverEmail(ctx context.Context, to, subject, body string) (string, error) {
	messageID, err := f.mail.Send(ctx, mailer.Message{To: to, Subject: subject, Body: body})
	if err != nil {
		f.metrics.EmailsFailedTotal.Inc()
		return "", err
	}
	f.metrics.EmailsSentTotal.Inc()
	return messageID, nil
}

func (f *WorkflowFacade) MarkNotificationSent(ctx context.Context, id int64) error {
	return f.notifications.MarkSent(ctx, id)
}

func (f *WorkflowFacade) MarkNotificationFailed(ctx context.Context, id int64) error {
	return f.notifications.MarkFailed(ctx, id)
}

func (f *WorkflowFacade) HealthCheck(ctx context.Context) error {
	return f.pinger.HealthCheck(ctx)
}

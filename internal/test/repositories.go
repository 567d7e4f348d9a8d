package test

import (
	"context"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Add seeds a user directly, bypassing Create.
func (s *UserRepositoryStub) Add(user *model.User) {
	s.Users[user.Login] = user
	s.ByID[user.ID] = user
	if user.ID >= s.Next {
		s.Next = user.ID + 1
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role, clientID *int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role, ClientID: clientID}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByClient returns the first user bound to the given client.
func (s *UserRepositoryStub) GetByClient(ctx context.Context, clientID int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, user := range s.ByID {
		if user.ClientID != nil && *user.ClientID == clientID {
			return user, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByRole returns every user holding the given role.
func (s *UserRepositoryStub) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var users []model.User
	for _, user := range s.ByID {
		if user.Role == role {
			users = append(users, *user)
		}
	}
	return users, nil
}

// ClientRepositoryStub serves client companies from a map.
type ClientRepositoryStub struct {
	Clients map[int64]*model.Client
	Err     error
}

// NewClientRepositoryStub constructs stub with an initialized map.
func NewClientRepositoryStub() *ClientRepositoryStub {
	return &ClientRepositoryStub{Clients: make(map[int64]*model.Client)}
}

// Create stores a client under the next free id.
func (s *ClientRepositoryStub) Create(ctx context.Context, company, email, invoicePrefix string, marginOverride *float64) (*model.Client, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	client := &model.Client{
		ID:             int64(len(s.Clients) + 1),
		Company:        company,
		Email:          email,
		InvoicePrefix:  invoicePrefix,
		MarginOverride: marginOverride,
	}
	s.Clients[client.ID] = client
	return client, nil
}

// GetByID fetches a client or returns not found.
func (s *ClientRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if client, ok := s.Clients[id]; ok {
		return client, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderRepositoryStub allows tests to customize behaviour per method.
type OrderRepositoryStub struct {
	CreateFn         func(context.Context, int64, *int64, string, []repository.NewProduct) (*model.Order, error)
	GetByIDFn        func(context.Context, int64) (*model.Order, error)
	ApplyBulkRouteFn func(context.Context, repository.BulkRouteSet) error
	RouteSampleFn    func(context.Context, int64, model.SampleRouteUpdate, int64, string, model.AuditEntry, *model.Notification) error

	Orders      []model.Order
	AppliedSets []repository.BulkRouteSet
	SampleCalls []SampleRouteCall
}

// SampleRouteCall records one RouteSample invocation.
type SampleRouteCall struct {
	OrderID     int64
	Update      model.SampleRouteUpdate
	RoutedBy    int64
	AppendNotes string
	Audit       model.AuditEntry
}

// Create delegates to the override or returns a default order.
func (s *OrderRepositoryStub) Create(ctx context.Context, clientID int64, manufacturerID *int64, number string, products []repository.NewProduct) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, clientID, manufacturerID, number, products)
	}
	return &model.Order{ID: 1, Number: "ORD-000001", ClientID: clientID, ManufacturerID: manufacturerID}, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListForClient filters stored orders by client.
func (s *OrderRepositoryStub) ListForClient(ctx context.Context, clientID int64) ([]model.Order, error) {
	var out []model.Order
	for _, o := range s.Orders {
		if o.ClientID == clientID {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListForManufacturer filters stored orders by manufacturer.
func (s *OrderRepositoryStub) ListForManufacturer(ctx context.Context, manufacturerID int64) ([]model.Order, error) {
	var out []model.Order
	for _, o := range s.Orders {
		if o.ManufacturerID != nil && *o.ManufacturerID == manufacturerID {
			out = append(out, o)
		}
	}
	return out, nil
}

// ListAll returns every stored order.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.Orders, nil
}

// ApplyBulkRoute records the write set and delegates to the override.
func (s *OrderRepositoryStub) ApplyBulkRoute(ctx context.Context, set repository.BulkRouteSet) error {
	s.AppliedSets = append(s.AppliedSets, set)
	if s.ApplyBulkRouteFn != nil {
		return s.ApplyBulkRouteFn(ctx, set)
	}
	return nil
}

// RouteSample records the call and delegates to the override.
func (s *OrderRepositoryStub) RouteSample(ctx context.Context, orderID int64, update model.SampleRouteUpdate, routedBy int64, appendNotes string, audit model.AuditEntry, notification *model.Notification) error {
	s.SampleCalls = append(s.SampleCalls, SampleRouteCall{
		OrderID:     orderID,
		Update:      update,
		RoutedBy:    routedBy,
		AppendNotes: appendNotes,
		Audit:       audit,
	})
	if s.RouteSampleFn != nil {
		return s.RouteSampleFn(ctx, orderID, update, routedBy, appendNotes, audit, notification)
	}
	return nil
}

// SetPaid is a no-op in the stub.
func (s *OrderRepositoryStub) SetPaid(ctx context.Context, orderID int64, paid bool) error {
	return nil
}

// ProductRepositoryStub serves products from configured slices.
type ProductRepositoryStub struct {
	Products []model.OrderProduct
	Items    map[int64][]model.OrderItem
	Err      error
}

// GetByID returns the matching product or not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.OrderProduct, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, p := range s.Products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByOrder filters stored products by order.
func (s *ProductRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.OrderProduct
	for _, p := range s.Products {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ItemsByProduct returns configured quantity lines.
func (s *ProductRepositoryStub) ItemsByProduct(ctx context.Context, productID int64) ([]model.OrderItem, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Items[productID], nil
}

// InvoiceRepositoryStub tracks sequence and creation calls.
type InvoiceRepositoryStub struct {
	NextSequenceFn func(context.Context, int64, string) (int64, error)
	CreateFn       func(context.Context, model.Invoice, []model.InvoiceItem) (*model.Invoice, error)

	Sequences map[int64]int64
	Invoices  []model.Invoice
	ItemsByID map[int64][]model.InvoiceItem
	SentIDs   []int64
}

// NewInvoiceRepositoryStub constructs stub with initialized maps.
func NewInvoiceRepositoryStub() *InvoiceRepositoryStub {
	return &InvoiceRepositoryStub{
		Sequences: make(map[int64]int64),
		ItemsByID: make(map[int64][]model.InvoiceItem),
	}
}

// NextSequence increments the per-client counter.
func (s *InvoiceRepositoryStub) NextSequence(ctx context.Context, clientID int64, prefix string) (int64, error) {
	if s.NextSequenceFn != nil {
		return s.NextSequenceFn(ctx, clientID, prefix)
	}
	s.Sequences[clientID]++
	return s.Sequences[clientID], nil
}

// CreateWithItems stores the invoice and its lines.
func (s *InvoiceRepositoryStub) CreateWithItems(ctx context.Context, invoice model.Invoice, items []model.InvoiceItem) (*model.Invoice, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, invoice, items)
	}
	invoice.ID = int64(len(s.Invoices) + 1)
	s.Invoices = append(s.Invoices, invoice)
	s.ItemsByID[invoice.ID] = items
	return &invoice, nil
}

// GetByID fetches a stored invoice.
func (s *InvoiceRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	for _, inv := range s.Invoices {
		if inv.ID == id {
			invoice := inv
			return &invoice, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Items returns stored lines.
func (s *InvoiceRepositoryStub) Items(ctx context.Context, invoiceID int64) ([]model.InvoiceItem, error) {
	return s.ItemsByID[invoiceID], nil
}

// ListForClient filters stored invoices by client.
func (s *InvoiceRepositoryStub) ListForClient(ctx context.Context, clientID int64) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range s.Invoices {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

// MarkSent records the invoice id.
func (s *InvoiceRepositoryStub) MarkSent(ctx context.Context, invoiceID int64) error {
	s.SentIDs = append(s.SentIDs, invoiceID)
	return nil
}

// AuditRepositoryStub accumulates appended entries.
type AuditRepositoryStub struct {
	Entries []model.AuditEntry
	Err     error
}

// Append stores the entry.
func (s *AuditRepositoryStub) Append(ctx context.Context, entry model.AuditEntry) error {
	if s.Err != nil {
		return s.Err
	}
	s.Entries = append(s.Entries, entry)
	return nil
}

// ListByTarget filters stored entries.
func (s *AuditRepositoryStub) ListByTarget(ctx context.Context, targetType string, targetID int64) ([]model.AuditEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.AuditEntry
	for _, e := range s.Entries {
		if e.TargetType == targetType && e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out, nil
}

// NotificationRepositoryStub accumulates enqueued notifications.
type NotificationRepositoryStub struct {
	Queue     []model.Notification
	SentIDs   []int64
	FailedIDs []int64
	Err       error
}

// Enqueue stores the notification.
func (s *NotificationRepositoryStub) Enqueue(ctx context.Context, n model.Notification) (*model.Notification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	n.ID = int64(len(s.Queue) + 1)
	s.Queue = append(s.Queue, n)
	return &n, nil
}

// ListByRecipient filters the queue.
func (s *NotificationRepositoryStub) ListByRecipient(ctx context.Context, recipientID int64) ([]model.Notification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Notification
	for _, n := range s.Queue {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

// SelectBatchForDispatch returns pending and stranded sending notifications
// up to limit, mirroring the re-claim behaviour of the postgres repository.
func (s *NotificationRepositoryStub) SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Notification, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Notification
	for _, n := range s.Queue {
		if (n.Status == model.NotificationStatusPending || n.Status == model.NotificationStatusSending) && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

// MarkSent records the id.
func (s *NotificationRepositoryStub) MarkSent(ctx context.Context, id int64) error {
	s.SentIDs = append(s.SentIDs, id)
	return nil
}

// MarkFailed records the id.
func (s *NotificationRepositoryStub) MarkFailed(ctx context.Context, id int64) error {
	s.FailedIDs = append(s.FailedIDs, id)
	return nil
}

// MediaRepositoryStub reports a fixed attachment count per order.
type MediaRepositoryStub struct {
	Counts map[int64]int
	Media  []model.OrderMedia
	Err    error
}

// Add stores the attachment.
func (s *MediaRepositoryStub) Add(ctx context.Context, orderID int64, url, kind string) (*model.OrderMedia, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	media := &model.OrderMedia{ID: int64(len(s.Media) + 1), OrderID: orderID, URL: url, Kind: kind}
	s.Media = append(s.Media, *media)
	return media, nil
}

// ListByOrder filters stored attachments.
func (s *MediaRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.OrderMedia, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.OrderMedia
	for _, m := range s.Media {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

// CountByOrder returns the configured count.
func (s *MediaRepositoryStub) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Counts[orderID], nil
}

// SystemConfigStub serves float settings from a map.
type SystemConfigStub struct {
	Values map[string]float64
	Err    error
}

// GetFloat returns the stored value or nil when absent.
func (s *SystemConfigStub) GetFloat(ctx context.Context, key string) (*float64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if v, ok := s.Values[key]; ok {
		value := v
		return &value, nil
	}
	return nil, nil
}

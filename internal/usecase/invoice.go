package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/domain/repository"
)

// CustomLine is a free-form invoice line outside the product snapshot.
type CustomLine struct {
	Description string
	Quantity    int
	UnitPrice   float64
}

// CreateInvoiceCommand selects the products and extra lines to bill.
type CreateInvoiceCommand struct {
	OrderID     int64
	ProductIDs  []int64
	CustomLines []CustomLine
	PaymentLink string
}

// InvoiceUseCase generates and sends invoices.
type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
	orders   repository.OrderRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(invoices repository.InvoiceRepository, orders repository.OrderRepository, products repository.ProductRepository, clients repository.ClientRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, orders: orders, products: products, clients: clients}
}

// FormatInvoiceNumber renders a sequence value as PREFIX-00007.
func FormatInvoiceNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%05d", prefix, seq)
}

// InvoicePrefixFor derives a sequence prefix from the client record: the
// stored prefix when set, otherwise the first three letters of the company
// name, uppercased.
func InvoicePrefixFor(client *model.Client) string {
	if client.InvoicePrefix != "" {
		return client.InvoicePrefix
	}
	var letters []rune
	for _, r := range client.Company {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 3 {
				break
			}
		}
	}
	if len(letters) == 0 {
		return "INV"
	}
	return string(letters)
}

// Create bills the selected uninvoiced products plus any custom lines. Lines
// snapshot the client price; manufacturer cost never reaches an invoice. The
// snapshot, the product invoiced flags and the invoice row commit together.
func (u *InvoiceUseCase) Create(ctx context.Context, session model.Session, cmd CreateInvoiceCommand) (*model.Invoice, error) {
	if !session.Role.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}

	order, err := u.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	selected := make(map[int64]bool, len(cmd.ProductIDs))
	for _, id := range cmd.ProductIDs {
		selected[id] = true
	}

	all, err := u.products.ListByOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	var items []model.InvoiceItem
	var total float64
	for _, p := range all {
		if !selected[p.ID] {
			continue
		}
		delete(selected, p.ID)
		if p.Invoiced {
			return nil, fmt.Errorf("product %d: %w", p.ID, domainErrors.ErrAlreadyInvoiced)
		}
		price := 0.0
		if p.ClientPrice != nil {
			price = *p.ClientPrice
		}
		qty, err := u.productQuantity(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		id := p.ID
		items = append(items, model.InvoiceItem{
			ProductID:   &id,
			Description: p.Name,
			Quantity:    qty,
			UnitPrice:   price,
		})
		total += float64(qty) * price
	}
	if len(selected) > 0 {
		return nil, domainErrors.ErrNotFound
	}
	for _, line := range cmd.CustomLines {
		if line.Quantity <= 0 || line.UnitPrice < 0 {
			return nil, domainErrors.ErrInvalidAmount
		}
		items = append(items, model.InvoiceItem{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
		total += float64(line.Quantity) * line.UnitPrice
	}
	if len(items) == 0 {
		return nil, domainErrors.ErrEmptySelection
	}

	client, err := u.clients.GetByID(ctx, order.ClientID)
	if err != nil {
		return nil, err
	}
	seq, err := u.invoices.NextSequence(ctx, client.ID, InvoicePrefixFor(client))
	if err != nil {
		return nil, err
	}

	orderID := order.ID
	invoice := model.Invoice{
		Number:      FormatInvoiceNumber(InvoicePrefixFor(client), seq),
		ClientID:    client.ID,
		OrderID:     &orderID,
		Total:       total,
		PaymentLink: cmd.PaymentLink,
	}
	return u.invoices.CreateWithItems(ctx, invoice, items)
}

func (u *InvoiceUseCase) productQuantity(ctx context.Context, productID int64) (int, error) {
	lines, err := u.products.ItemsByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 1, nil
	}
	qty := 0
	for _, l := range lines {
		qty += l.Quantity
	}
	return qty, nil
}

// Get returns an invoice with its lines after an access check: admins see
// all, clients only their own.
func (u *InvoiceUseCase) Get(ctx context.Context, session model.Session, id int64) (*model.Invoice, []model.InvoiceItem, error) {
	invoice, err := u.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !session.Role.IsAdmin() {
		if session.Role != model.RoleClient || session.ClientID == nil || *session.ClientID != invoice.ClientID {
			return nil, nil, domainErrors.ErrForbidden
		}
	}
	items, err := u.invoices.Items(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

// List returns the invoices visible to the session.
func (u *InvoiceUseCase) List(ctx context.Context, session model.Session, clientID int64) ([]model.Invoice, error) {
	if session.Role.IsAdmin() {
		return u.invoices.ListForClient(ctx, clientID)
	}
	if session.Role == model.RoleClient && session.ClientID != nil {
		return u.invoices.ListForClient(ctx, *session.ClientID)
	}
	return nil, domainErrors.ErrForbidden
}

// MarkSent stamps the invoice as emailed.
func (u *InvoiceUseCase) MarkSent(ctx context.Context, id int64) error {
	return u.invoices.MarkSent(ctx, id)
}

// ClientEmail resolves the billing address for an invoice.
func (u *InvoiceUseCase) ClientEmail(ctx context.Context, invoice *model.Invoice) (string, error) {
	client, err := u.clients.GetByID(ctx, invoice.ClientID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(client.Email) == "" {
		return "", domainErrors.ErrNotFound
	}
	return client.Email, nil
}

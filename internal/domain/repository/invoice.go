package repository

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// InvoiceRepository describes persistence operations with invoices.
type InvoiceRepository interface {
	// NextSequence atomically increments the client's counter and returns its
	// new value. Concurrent callers never observe the same value.
	NextSequence(ctx context.Context, clientID int64, prefix string) (int64, error)
	// CreateWithItems snapshots the given lines and marks the referenced
	// products invoiced inside one transaction.
	CreateWithItems(ctx context.Context, invoice model.Invoice, items []model.InvoiceItem) (*model.Invoice, error)
	GetByID(ctx context.Context, id int64) (*model.Invoice, error)
	Items(ctx context.Context, invoiceID int64) ([]model.InvoiceItem, error)
	ListForClient(ctx context.Context, clientID int64) ([]model.Invoice, error)
	MarkSent(ctx context.Context, invoiceID int64) error
}

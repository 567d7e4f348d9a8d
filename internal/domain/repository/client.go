package repository

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// ClientRepository describes persistence operations for customer companies.
type ClientRepository interface {
	Create(ctx context.Context, company, email, invoicePrefix string, marginOverride *float64) (*model.Client, error)
	GetByID(ctx context.Context, id int64) (*model.Client, error)
}

package usecase

import (
	"context"
	"log/slog"
	"strings"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/domain/repository"
)

// CreateOrderCommand describes a new order with its products and lines.
type CreateOrderCommand struct {
	ClientID       int64
	ManufacturerID *int64
	Products       []repository.NewProduct
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
	audit    repository.AuditRepository
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, products repository.ProductRepository, clients repository.ClientRepository, audit repository.AuditRepository, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, products: products, clients: clients, audit: audit, logger: logger}
}

// Create registers a new order. Clients may only create orders for their own
// company; admins for any client.
func (u *OrderUseCase) Create(ctx context.Context, session model.Session, cmd CreateOrderCommand) (*model.Order, error) {
	switch session.Role {
	case model.RoleAdmin, model.RoleSuperAdmin:
	case model.RoleClient:
		if session.ClientID == nil || *session.ClientID != cmd.ClientID {
			return nil, domainErrors.ErrForbidden
		}
	default:
		return nil, domainErrors.ErrForbidden
	}
	if len(cmd.Products) == 0 {
		return nil, domainErrors.ErrEmptySelection
	}
	for _, p := range cmd.Products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, domainErrors.ErrInvalidAmount
		}
	}

	order, err := u.orders.Create(ctx, cmd.ClientID, cmd.ManufacturerID, "", cmd.Products)
	if err != nil {
		return nil, err
	}

	// The order itself is committed; a lost audit row is logged, not fatal.
	if err := u.audit.Append(ctx, model.AuditEntry{
		ActorID:    session.UserID,
		ActorRole:  session.Role,
		Action:     "order_created",
		TargetType: "order",
		TargetID:   order.ID,
		NewValue:   order.Number,
	}); err != nil {
		u.logger.Warn("order audit append failed",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
	return order, nil
}

// List returns the orders visible to the session: clients see their own,
// manufacturers the ones assigned to them, admins everything.
func (u *OrderUseCase) List(ctx context.Context, session model.Session) ([]model.Order, error) {
	switch session.Role {
	case model.RoleAdmin, model.RoleSuperAdmin:
		return u.orders.ListAll(ctx)
	case model.RoleClient:
		if session.ClientID == nil {
			return nil, nil
		}
		return u.orders.ListForClient(ctx, *session.ClientID)
	case model.RoleManufacturer:
		return u.orders.ListForManufacturer(ctx, session.UserID)
	}
	return nil, domainErrors.ErrForbidden
}

// Get returns one order after an access check.
func (u *OrderUseCase) Get(ctx context.Context, session model.Session, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkOrderAccess(session, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Products lists an order's products with the access check applied.
func (u *OrderUseCase) Products(ctx context.Context, session model.Session, orderID int64) ([]model.OrderProduct, error) {
	if _, err := u.Get(ctx, session, orderID); err != nil {
		return nil, err
	}
	return u.products.ListByOrder(ctx, orderID)
}

// Items lists the quantity/variant lines of a product.
func (u *OrderUseCase) Items(ctx context.Context, productID int64) ([]model.OrderItem, error) {
	return u.products.ItemsByProduct(ctx, productID)
}

// ClientEmail resolves the contact address of the order's client company.
func (u *OrderUseCase) ClientEmail(ctx context.Context, order *model.Order) (string, error) {
	client, err := u.clients.GetByID(ctx, order.ClientID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(client.Email) == "" {
		return "", domainErrors.ErrNotFound
	}
	return client.Email, nil
}

// AuditTrail returns the order's audit history, admin only.
func (u *OrderUseCase) AuditTrail(ctx context.Context, session model.Session, orderID int64) ([]model.AuditEntry, error) {
	if !session.Role.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	return u.audit.ListByTarget(ctx, "order", orderID)
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/domain/repository"
)

// BulkRouteCommand is the full input for one bulk routing action. The
// orchestrator operates on this data only; it never reaches into transport or
// view state.
type BulkRouteCommand struct {
	OrderID    int64
	ProductIDs []int64
	Action     model.RouteAction
	Notes      string
}

// ProductError reports why a selected product was skipped during validation.
type ProductError struct {
	ProductID int64
	Err       error
}

// BulkRouteResult lists what was routed and what was rejected. Routed is
// all-or-nothing: the underlying writes share one transaction.
type BulkRouteResult struct {
	Routed  []int64
	Skipped []ProductError
}

// RoutingUseCase applies one routing action across selected products plus the
// order-level sample record.
type RoutingUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	clients  repository.ClientRepository
	media    repository.MediaRepository
	syscfg   repository.SystemConfigRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewRoutingUseCase constructs RoutingUseCase.
func NewRoutingUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	clients repository.ClientRepository,
	media repository.MediaRepository,
	syscfg repository.SystemConfigRepository,
	logger *slog.Logger,
) *RoutingUseCase {
	return &RoutingUseCase{
		orders:   orders,
		products: products,
		users:    users,
		clients:  clients,
		media:    media,
		syscfg:   syscfg,
		logger:   logger,
		now:      time.Now,
	}
}

// BulkRoute validates every selected product, then applies the action, the
// sample normalization, the audit rows and the recipient notification in a
// single transaction. Validation never aborts early: every bad product is
// reported in Skipped, and the valid remainder still routes.
func (u *RoutingUseCase) BulkRoute(ctx context.Context, session model.Session, cmd BulkRouteCommand) (*BulkRouteResult, error) {
	update, err := ResolveProductRoute(session.Role, cmd.Action, u.now())
	if err != nil {
		return nil, err
	}

	order, err := u.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if err := checkOrderAccess(session, order); err != nil {
		return nil, err
	}

	known, err := u.products.ListByOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.OrderProduct, len(known))
	for _, p := range known {
		byID[p.ID] = p
	}

	result := &BulkRouteResult{}
	set := repository.BulkRouteSet{OrderID: cmd.OrderID}
	for _, id := range cmd.ProductIDs {
		p, ok := byID[id]
		if !ok {
			result.Skipped = append(result.Skipped, ProductError{ProductID: id, Err: domainErrors.ErrNotFound})
			continue
		}
		if err := CheckRouteable(p, session.Role, cmd.Action); err != nil {
			result.Skipped = append(result.Skipped, ProductError{ProductID: id, Err: err})
			continue
		}
		set.Products = append(set.Products, repository.ProductRouteWrite{
			ProductID: id,
			Update:    update,
			RoutedBy:  session.UserID,
		})
		result.Routed = append(result.Routed, id)
		if cmd.Notes != "" {
			set.Audit = append(set.Audit, model.AuditEntry{
				ActorID:    session.UserID,
				ActorRole:  session.Role,
				Action:     string(cmd.Action),
				TargetType: "order_product",
				TargetID:   id,
				OldValue:   string(p.Status),
				NewValue:   string(update.Status),
				Note:       cmd.Notes,
			})
		}
	}
	if len(set.Products) == 0 {
		if len(result.Skipped) > 0 {
			return result, domainErrors.ErrEmptySelection
		}
		return nil, domainErrors.ErrEmptySelection
	}

	sample, err := u.resolveSampleWrite(ctx, session, order, cmd.Action)
	if err != nil {
		return nil, err
	}
	set.Sample = sample
	if sample.Update != nil {
		set.Audit = append(set.Audit, model.AuditEntry{
			ActorID:    session.UserID,
			ActorRole:  session.Role,
			Action:     "sample_routed",
			TargetType: "order",
			TargetID:   order.ID,
			OldValue:   string(order.SampleRoutedTo),
			NewValue:   string(sample.Update.RoutedTo),
			Note:       cmd.Notes,
		})
	}

	if n := u.routeNotification(ctx, order, update.RoutedTo, cmd.Action); n != nil {
		set.Notifications = append(set.Notifications, *n)
	}

	if err := u.orders.ApplyBulkRoute(ctx, set); err != nil {
		return nil, fmt.Errorf("apply bulk route: %w", err)
	}
	return result, nil
}

// resolveSampleWrite normalizes the order's sample state for this action. An
// order with no sample data at all is forced back to no_sample; otherwise the
// derived client fee is recomputed and, when the action implies a defined and
// permitted handoff, the sample moves with the products.
func (u *RoutingUseCase) resolveSampleWrite(ctx context.Context, session model.Session, order *model.Order, action model.RouteAction) (repository.SampleWrite, error) {
	write := repository.SampleWrite{RoutedBy: session.UserID}

	mediaCount, err := u.media.CountByOrder(ctx, order.ID)
	if err != nil {
		return write, err
	}
	if !order.HasSampleData(mediaCount) {
		write.ForceNoSample = true
		return write, nil
	}

	if order.SampleFee != nil {
		client, err := u.clients.GetByID(ctx, order.ClientID)
		if err != nil {
			return write, err
		}
		systemDefault, err := u.syscfg.GetFloat(ctx, SampleMarginKey)
		if err != nil {
			return write, err
		}
		margin := ResolveSampleMargin(client.MarginOverride, systemDefault)
		fee := ClientSampleFee(*order.SampleFee, margin)
		write.ClientSampleFee = &fee
	}

	transition, ok := SampleTransitionFor(session.Role, action)
	if ok && CanRouteSample(session.Role, order.SampleRoutedTo, transition.RoutedTo) {
		write.Update = &transition
	}
	return write, nil
}

func (u *RoutingUseCase) routeNotification(ctx context.Context, order *model.Order, target model.Custodian, action model.RouteAction) *model.Notification {
	recipient, err := RecipientFor(ctx, u.users, order, target)
	if err != nil {
		u.logger.Warn("route notification recipient lookup failed",
			slog.Int64("order_id", order.ID),
			slog.String("target", string(target)),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &model.Notification{
		RecipientID: recipient.ID,
		Kind:        "products_routed",
		Subject:     fmt.Sprintf("Order %s routed to you", order.Number),
		Body:        fmt.Sprintf("Products on order %s were routed to you (%s).", order.Number, action),
		Status:      model.NotificationStatusPending,
	}
}

func checkOrderAccess(session model.Session, order *model.Order) error {
	switch session.Role {
	case model.RoleAdmin, model.RoleSuperAdmin:
		return nil
	case model.RoleClient:
		if session.ClientID != nil && *session.ClientID == order.ClientID {
			return nil
		}
	case model.RoleManufacturer:
		if order.ManufacturerID != nil && *order.ManufacturerID == session.UserID {
			return nil
		}
	}
	return domainErrors.ErrForbidden
}

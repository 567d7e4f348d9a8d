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

// CanRouteSample reports whether role may hand the sample from its current
// custodian to target. The sample always passes through admin: a direct
// manufacturer<->client handoff is never allowed, whatever the role.
func CanRouteSample(role model.Role, current, target model.Custodian) bool {
	if current == target {
		return false
	}
	switch {
	case current == model.CustodianManufacturer && target == model.CustodianClient:
		return false
	case current == model.CustodianClient && target == model.CustodianManufacturer:
		return false
	}
	switch role {
	case model.RoleAdmin, model.RoleSuperAdmin:
		// admin<->manufacturer and admin<->client, from admin custody only.
		return current == model.CustodianAdmin
	case model.RoleManufacturer:
		return current == model.CustodianManufacturer && target == model.CustodianAdmin
	case model.RoleClient:
		return current == model.CustodianClient && target == model.CustodianAdmin
	}
	return false
}

// SampleUseCase drives the order-level sample handoff, independent of
// per-product routing.
type SampleUseCase struct {
	orders repository.OrderRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewSampleUseCase constructs SampleUseCase.
func NewSampleUseCase(orders repository.OrderRepository, users repository.UserRepository, logger *slog.Logger) *SampleUseCase {
	return &SampleUseCase{orders: orders, users: users, logger: logger}
}

// Route hands the sample to target on behalf of the session user. The write,
// its audit row and the recipient notification commit together; a failed
// recipient lookup downgrades to a log line instead of failing the handoff.
func (u *SampleUseCase) Route(ctx context.Context, session model.Session, orderID int64, target model.Custodian, notes string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !CanRouteSample(session.Role, order.SampleRoutedTo, target) {
		return domainErrors.ErrForbiddenTransition
	}

	update := model.SampleRouteUpdate{RoutedTo: target, Status: order.SampleStatus}
	if order.SampleStatus == model.SampleStatusNone {
		update.Status = model.SampleStatusRequested
	}

	appendNotes := ""
	if notes != "" {
		appendNotes = fmt.Sprintf("[%s %s] %s", session.Role, time.Now().Format(time.RFC3339), notes)
	}

	audit := model.AuditEntry{
		ActorID:    session.UserID,
		ActorRole:  session.Role,
		Action:     "sample_routed",
		TargetType: "order",
		TargetID:   orderID,
		OldValue:   string(order.SampleRoutedTo),
		NewValue:   string(target),
		Note:       notes,
	}

	notification := u.notificationFor(ctx, order, target)
	return u.orders.RouteSample(ctx, orderID, update, session.UserID, appendNotes, audit, notification)
}

func (u *SampleUseCase) notificationFor(ctx context.Context, order *model.Order, target model.Custodian) *model.Notification {
	recipient, err := RecipientFor(ctx, u.users, order, target)
	if err != nil {
		u.logger.Warn("sample notification recipient lookup failed",
			slog.Int64("order_id", order.ID),
			slog.String("target", string(target)),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &model.Notification{
		RecipientID: recipient.ID,
		Kind:        "sample_routed",
		Subject:     fmt.Sprintf("Sample for order %s routed to you", order.Number),
		Body:        fmt.Sprintf("The sample request for order %s now awaits your action.", order.Number),
		Status:      model.NotificationStatusPending,
	}
}

// RecipientFor resolves the user who should be notified when custody moves to
// target on the given order.
func RecipientFor(ctx context.Context, users repository.UserRepository, order *model.Order, target model.Custodian) (*model.User, error) {
	switch target {
	case model.CustodianManufacturer:
		if order.ManufacturerID == nil {
			return nil, domainErrors.ErrNotFound
		}
		return users.GetByID(ctx, *order.ManufacturerID)
	case model.CustodianClient:
		return users.GetByClient(ctx, order.ClientID)
	default:
		admins, err := users.ListByRole(ctx, model.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if len(admins) == 0 {
			return nil, domainErrors.ErrNotFound
		}
		return &admins[0], nil
	}
}

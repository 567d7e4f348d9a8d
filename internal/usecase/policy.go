package usecase

import (
	"time"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// ResolveProductRoute maps a (role, action) pair to the product mutation it
// produces. The mapping is exhaustive over the defined pairs; anything else
// returns ErrUnknownRouteAction so a mistyped action can never pass through
// as a silent no-op. Every defined pair sets both Status and RoutedTo.
func ResolveProductRoute(role model.Role, action model.RouteAction, now time.Time) (model.ProductRouteUpdate, error) {
	switch role {
	case model.RoleManufacturer:
		switch action {
		case model.RouteActionSendToAdmin:
			return model.ProductRouteUpdate{Status: model.ProductStatusPendingAdmin, RoutedTo: model.CustodianAdmin}, nil
		case model.RouteActionStartProduction:
			return model.ProductRouteUpdate{Status: model.ProductStatusInProduction, RoutedTo: model.CustodianManufacturer}, nil
		case model.RouteActionMarkShipped:
			shipped := now
			return model.ProductRouteUpdate{Status: model.ProductStatusShipped, RoutedTo: model.CustodianAdmin, ShippedDate: &shipped}, nil
		}
	case model.RoleAdmin, model.RoleSuperAdmin:
		switch action {
		case model.RouteActionSendToManufacturer:
			return model.ProductRouteUpdate{Status: model.ProductStatusSentToManufacturer, RoutedTo: model.CustodianManufacturer}, nil
		case model.RouteActionApproveForProduction:
			return model.ProductRouteUpdate{Status: model.ProductStatusApprovedForProduction, RoutedTo: model.CustodianManufacturer}, nil
		case model.RouteActionRequestSample:
			return model.ProductRouteUpdate{Status: model.ProductStatusSampleRequested, RoutedTo: model.CustodianManufacturer}, nil
		case model.RouteActionSendToClient:
			return model.ProductRouteUpdate{Status: model.ProductStatusPendingClientApproval, RoutedTo: model.CustodianClient}, nil
		}
	case model.RoleClient:
		switch action {
		case model.RouteActionApprove:
			return model.ProductRouteUpdate{Status: model.ProductStatusClientApproved, RoutedTo: model.CustodianAdmin}, nil
		case model.RouteActionRequestRevision:
			return model.ProductRouteUpdate{Status: model.ProductStatusRevisionRequested, RoutedTo: model.CustodianAdmin}, nil
		}
	}
	return model.ProductRouteUpdate{}, domainErrors.ErrUnknownRouteAction
}

// CheckRouteable rejects routing over a locked product. A product in
// production accepts only the manufacturer's mark_shipped.
func CheckRouteable(p model.OrderProduct, role model.Role, action model.RouteAction) error {
	if !p.Locked() {
		return nil
	}
	if p.Status == model.ProductStatusInProduction &&
		role == model.RoleManufacturer && action == model.RouteActionMarkShipped {
		return nil
	}
	return domainErrors.ErrProductLocked
}

// SampleTransitionFor returns the order-level sample handoff a routing action
// implies, if any. The handoff is still subject to CanRouteSample.
func SampleTransitionFor(role model.Role, action model.RouteAction) (model.SampleRouteUpdate, bool) {
	switch {
	case role.IsAdmin() && action == model.RouteActionRequestSample:
		return model.SampleRouteUpdate{RoutedTo: model.CustodianManufacturer, Status: model.SampleStatusRequested}, true
	case role.IsAdmin() && action == model.RouteActionSendToClient:
		return model.SampleRouteUpdate{RoutedTo: model.CustodianClient, Status: model.SampleStatusQuoted}, true
	case role == model.RoleManufacturer && action == model.RouteActionSendToAdmin:
		return model.SampleRouteUpdate{RoutedTo: model.CustodianAdmin, Status: model.SampleStatusQuoted}, true
	case role == model.RoleManufacturer && action == model.RouteActionMarkShipped:
		return model.SampleRouteUpdate{RoutedTo: model.CustodianAdmin, Status: model.SampleStatusShipped}, true
	case role == model.RoleClient && action == model.RouteActionApprove:
		return model.SampleRouteUpdate{RoutedTo: model.CustodianAdmin, Status: model.SampleStatusApproved}, true
	}
	return model.SampleRouteUpdate{}, false
}

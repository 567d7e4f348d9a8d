package usecase

import (
	"errors"
	"testing"
	"time"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
)

var routeNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestResolveProductRouteDefinedPairs(t *testing.T) {
	tests := []struct {
		role     model.Role
		action   model.RouteAction
		status   model.ProductStatus
		routedTo model.Custodian
	}{
		{model.RoleManufacturer, model.RouteActionSendToAdmin, model.ProductStatusPendingAdmin, model.CustodianAdmin},
		{model.RoleManufacturer, model.RouteActionStartProduction, model.ProductStatusInProduction, model.CustodianManufacturer},
		{model.RoleManufacturer, model.RouteActionMarkShipped, model.ProductStatusShipped, model.CustodianAdmin},
		{model.RoleAdmin, model.RouteActionSendToManufacturer, model.ProductStatusSentToManufacturer, model.CustodianManufacturer},
		{model.RoleAdmin, model.RouteActionApproveForProduction, model.ProductStatusApprovedForProduction, model.CustodianManufacturer},
		{model.RoleAdmin, model.RouteActionRequestSample, model.ProductStatusSampleRequested, model.CustodianManufacturer},
		{model.RoleAdmin, model.RouteActionSendToClient, model.ProductStatusPendingClientApproval, model.CustodianClient},
		{model.RoleSuperAdmin, model.RouteActionSendToManufacturer, model.ProductStatusSentToManufacturer, model.CustodianManufacturer},
		{model.RoleSuperAdmin, model.RouteActionApproveForProduction, model.ProductStatusApprovedForProduction, model.CustodianManufacturer},
		{model.RoleSuperAdmin, model.RouteActionRequestSample, model.ProductStatusSampleRequested, model.CustodianManufacturer},
		{model.RoleSuperAdmin, model.RouteActionSendToClient, model.ProductStatusPendingClientApproval, model.CustodianClient},
		{model.RoleClient, model.RouteActionApprove, model.ProductStatusClientApproved, model.CustodianAdmin},
		{model.RoleClient, model.RouteActionRequestRevision, model.ProductStatusRevisionRequested, model.CustodianAdmin},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			update, err := ResolveProductRoute(tt.role, tt.action, routeNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if update.Status != tt.status {
				t.Fatalf("expected status %q, got %q", tt.status, update.Status)
			}
			if update.RoutedTo != tt.routedTo {
				t.Fatalf("expected routed_to %q, got %q", tt.routedTo, update.RoutedTo)
			}
			if update.Status == "" || update.RoutedTo == "" {
				t.Fatal("defined pair must set both status and routed_to")
			}
		})
	}
}

func TestResolveProductRouteMarkShippedStampsDate(t *testing.T) {
	update, err := ResolveProductRoute(model.RoleManufacturer, model.RouteActionMarkShipped, routeNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.ShippedDate == nil || !update.ShippedDate.Equal(routeNow) {
		t.Fatalf("expected shipped date %v, got %v", routeNow, update.ShippedDate)
	}
}

func TestResolveProductRouteUndefinedPairs(t *testing.T) {
	tests := []struct {
		role   model.Role
		action model.RouteAction
	}{
		{model.RoleClient, model.RouteActionSendToManufacturer},
		{model.RoleClient, model.RouteActionMarkShipped},
		{model.RoleManufacturer, model.RouteActionApprove},
		{model.RoleManufacturer, model.RouteActionSendToClient},
		{model.RoleAdmin, model.RouteActionApprove},
		{model.RoleAdmin, model.RouteActionStartProduction},
		{model.RoleAdmin, model.RouteAction("transmogrify")},
		{model.Role("auditor"), model.RouteActionApprove},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.action), func(t *testing.T) {
			_, err := ResolveProductRoute(tt.role, tt.action, routeNow)
			if !errors.Is(err, domainErrors.ErrUnknownRouteAction) {
				t.Fatalf("expected ErrUnknownRouteAction, got %v", err)
			}
		})
	}
}

func TestCheckRouteable(t *testing.T) {
	inProduction := model.OrderProduct{Status: model.ProductStatusInProduction}
	shipped := model.OrderProduct{Status: model.ProductStatusShipped}
	pending := model.OrderProduct{Status: model.ProductStatusPendingAdmin}

	if err := CheckRouteable(pending, model.RoleAdmin, model.RouteActionSendToManufacturer); err != nil {
		t.Fatalf("unlocked product must route: %v", err)
	}
	if err := CheckRouteable(inProduction, model.RoleManufacturer, model.RouteActionMarkShipped); err != nil {
		t.Fatalf("mark_shipped must pass on in_production: %v", err)
	}
	if err := CheckRouteable(inProduction, model.RoleAdmin, model.RouteActionSendToClient); !errors.Is(err, domainErrors.ErrProductLocked) {
		t.Fatalf("expected ErrProductLocked, got %v", err)
	}
	if err := CheckRouteable(shipped, model.RoleManufacturer, model.RouteActionMarkShipped); !errors.Is(err, domainErrors.ErrProductLocked) {
		t.Fatalf("shipped product must stay locked, got %v", err)
	}
}

func TestSampleTransitionFor(t *testing.T) {
	update, ok := SampleTransitionFor(model.RoleAdmin, model.RouteActionRequestSample)
	if !ok || update.RoutedTo != model.CustodianManufacturer || update.Status != model.SampleStatusRequested {
		t.Fatalf("unexpected transition %+v ok=%v", update, ok)
	}
	if _, ok := SampleTransitionFor(model.RoleClient, model.RouteActionRequestRevision); ok {
		t.Fatal("request_revision must not move the sample")
	}
	if _, ok := SampleTransitionFor(model.RoleManufacturer, model.RouteActionStartProduction); ok {
		t.Fatal("start_production must not move the sample")
	}
}

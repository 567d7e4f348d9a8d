package model

import "time"

// Custodian names the role currently responsible for a work item.
// Custody marks ownership of the next step, not visibility: admin and
// manufacturer keep read/write access to a product regardless of routing.
type Custodian string

const (
	CustodianAdmin        Custodian = "admin"
	CustodianManufacturer Custodian = "manufacturer"
	CustodianClient       Custodian = "client"
)

// Valid reports whether the custodian is one of the closed set.
func (c Custodian) Valid() bool {
	switch c {
	case CustodianAdmin, CustodianManufacturer, CustodianClient:
		return true
	}
	return false
}

// ProductStatus describes a product's position in the production lifecycle.
type ProductStatus string

const (
	ProductStatusPendingAdmin          ProductStatus = "pending_admin"
	ProductStatusPendingManufacturer   ProductStatus = "pending_manufacturer"
	ProductStatusSentToManufacturer    ProductStatus = "sent_to_manufacturer"
	ProductStatusApprovedForProduction ProductStatus = "approved_for_production"
	ProductStatusSampleRequested       ProductStatus = "sample_requested"
	ProductStatusInProduction          ProductStatus = "in_production"
	ProductStatusShipped               ProductStatus = "shipped"
	ProductStatusCompleted             ProductStatus = "completed"
	ProductStatusPendingClientApproval ProductStatus = "pending_client_approval"
	ProductStatusClientApproved        ProductStatus = "client_approved"
	ProductStatusRevisionRequested     ProductStatus = "revision_requested"
)

// RouteAction is a routing verb a role may apply to selected products.
type RouteAction string

const (
	RouteActionSendToAdmin          RouteAction = "send_to_admin"
	RouteActionStartProduction      RouteAction = "start_production"
	RouteActionMarkShipped          RouteAction = "mark_shipped"
	RouteActionSendToManufacturer   RouteAction = "send_to_manufacturer"
	RouteActionApproveForProduction RouteAction = "approve_for_production"
	RouteActionRequestSample        RouteAction = "request_sample"
	RouteActionSendToClient         RouteAction = "send_to_client"
	RouteActionApprove              RouteAction = "approve"
	RouteActionRequestRevision      RouteAction = "request_revision"
)

// SampleStatus tracks the order-level sample workflow, independent of
// per-product routing.
type SampleStatus string

const (
	SampleStatusNone       SampleStatus = "no_sample"
	SampleStatusRequested  SampleStatus = "requested"
	SampleStatusQuoted     SampleStatus = "quoted"
	SampleStatusApproved   SampleStatus = "approved"
	SampleStatusInProgress SampleStatus = "in_progress"
	SampleStatusShipped    SampleStatus = "shipped"
	SampleStatusReceived   SampleStatus = "received"
)

// ProductRouteUpdate is the field mutation produced by the routing policy for
// one product. Status and RoutedTo are always set for a defined pair.
type ProductRouteUpdate struct {
	Status      ProductStatus
	RoutedTo    Custodian
	ShippedDate *time.Time
}

// SampleRouteUpdate is the order-level mutation for a sample handoff.
type SampleRouteUpdate struct {
	RoutedTo Custodian
	Status   SampleStatus
}

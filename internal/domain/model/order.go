package model

import "time"

// OrderStatus describes the overall order lifecycle.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is the top-level work record shared by client, admin and manufacturer.
// Sample fields form a parallel workflow routed independently of the products.
type Order struct {
	ID             int64
	Number         string
	ClientID       int64
	ManufacturerID *int64
	Status         OrderStatus
	Paid           bool

	SampleFee       *float64
	ClientSampleFee *float64
	SampleETA       *time.Time
	SampleStatus    SampleStatus
	SampleRoutedTo  Custodian
	SampleRoutedAt  *time.Time
	SampleRoutedBy  *int64
	SampleNotes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSampleData reports whether any sample field is populated. Orders without
// sample data are forced back to no_sample on every bulk route.
func (o Order) HasSampleData(mediaCount int) bool {
	return o.SampleFee != nil || o.SampleETA != nil || o.SampleNotes != "" || mediaCount > 0
}

// OrderProduct is a single produced item within an order. Manufacturer and
// client prices are kept separate: client-facing reads must never expose the
// manufacturer cost.
type OrderProduct struct {
	ID      int64
	OrderID int64
	Name    string
	SKU     string

	ManufacturerPrice *float64
	ClientPrice       *float64

	Status   ProductStatus
	RoutedTo Custodian
	RoutedAt *time.Time
	RoutedBy *int64

	Invoiced  bool
	InvoiceID *int64

	EstimatedShipDate *time.Time
	ShippedDate       *time.Time
	ProductionDays    *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked reports whether the product rejects further routing. Production
// locks edits; only mark_shipped moves a product out of in_production.
func (p OrderProduct) Locked() bool {
	return p.Status == ProductStatusInProduction || p.Status == ProductStatusShipped
}

// OrderItem is a quantity/variant line under a product.
type OrderItem struct {
	ID        int64
	ProductID int64
	Quantity  int
	Variant   string
}

// OrderMedia is an attachment uploaded against an order.
type OrderMedia struct {
	ID        int64
	OrderID   int64
	URL       string
	Kind      string
	CreatedAt time.Time
}

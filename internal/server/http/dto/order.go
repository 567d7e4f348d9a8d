package dto

import (
	"time"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// CreateOrderRequest describes a new order with its products.
type CreateOrderRequest struct {
	ClientID       int64                  `json:"client_id" binding:"required"`
	ManufacturerID *int64                 `json:"manufacturer_id,omitempty"`
	Products       []CreateProductRequest `json:"products" binding:"required"`
}

// CreateProductRequest is one product line in a new order.
type CreateProductRequest struct {
	Name              string        `json:"name" binding:"required"`
	SKU               string        `json:"sku,omitempty"`
	ManufacturerPrice *float64      `json:"manufacturer_price,omitempty"`
	ClientPrice       *float64      `json:"client_price,omitempty"`
	Items             []ItemRequest `json:"items,omitempty"`
}

// ItemRequest is a quantity/variant line under a product.
type ItemRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Variant  string `json:"variant,omitempty"`
}

// OrderResponse is the role-shaped view of an order.
type OrderResponse struct {
	ID             int64      `json:"id"`
	Number         string     `json:"number"`
	ClientID       int64      `json:"client_id"`
	ManufacturerID *int64     `json:"manufacturer_id,omitempty"`
	Status         string     `json:"status"`
	Paid           bool       `json:"paid"`
	SampleStatus   string     `json:"sample_status"`
	SampleRoutedTo string     `json:"sample_routed_to"`
	SampleFee      *float64   `json:"sample_fee,omitempty"`
	SampleETA      *time.Time `json:"sample_eta,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ProductResponse is the role-shaped view of an order product. Exactly one
// price side is present for manufacturer and client sessions.
type ProductResponse struct {
	ID                int64      `json:"id"`
	OrderID           int64      `json:"order_id"`
	Name              string     `json:"name"`
	SKU               string     `json:"sku,omitempty"`
	Status            string     `json:"status"`
	RoutedTo          string     `json:"routed_to"`
	Invoiced          bool       `json:"invoiced"`
	ManufacturerPrice *float64   `json:"manufacturer_price,omitempty"`
	ClientPrice       *float64   `json:"client_price,omitempty"`
	EstimatedShipDate *time.Time `json:"estimated_ship_date,omitempty"`
	ShippedDate       *time.Time `json:"shipped_date,omitempty"`
}

// ToOrderResponse shapes an order for the session role. The sample fee a
// client sees is the derived client fee, never the raw manufacturer fee.
func ToOrderResponse(order model.Order, role model.Role) OrderResponse {
	resp := OrderResponse{
		ID:             order.ID,
		Number:         order.Number,
		ClientID:       order.ClientID,
		ManufacturerID: order.ManufacturerID,
		Status:         string(order.Status),
		Paid:           order.Paid,
		SampleStatus:   string(order.SampleStatus),
		SampleRoutedTo: string(order.SampleRoutedTo),
		SampleETA:      order.SampleETA,
		CreatedAt:      order.CreatedAt,
	}
	switch role {
	case model.RoleClient:
		resp.SampleFee = order.ClientSampleFee
		resp.ManufacturerID = nil
	default:
		resp.SampleFee = order.SampleFee
	}
	return resp
}

// ToProductResponse shapes a product for the session role: manufacturers only
// see the manufacturer price, clients only the client price.
func ToProductResponse(p model.OrderProduct, role model.Role) ProductResponse {
	resp := ProductResponse{
		ID:                p.ID,
		OrderID:           p.OrderID,
		Name:              p.Name,
		SKU:               p.SKU,
		Status:            string(p.Status),
		RoutedTo:          string(p.RoutedTo),
		Invoiced:          p.Invoiced,
		EstimatedShipDate: p.EstimatedShipDate,
		ShippedDate:       p.ShippedDate,
	}
	switch role {
	case model.RoleManufacturer:
		resp.ManufacturerPrice = p.ManufacturerPrice
	case model.RoleClient:
		resp.ClientPrice = p.ClientPrice
	default:
		resp.ManufacturerPrice = p.ManufacturerPrice
		resp.ClientPrice = p.ClientPrice
	}
	return resp
}

// AuditEntryResponse is one row of an order's history.
type AuditEntryResponse struct {
	ActorID   int64     `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Action    string    `json:"action"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderEmailRequest tunes the order summary email.
type OrderEmailRequest struct {
	Subject       string `json:"subject,omitempty"`
	CustomMessage string `json:"custom_message,omitempty"`
	ShowPricing   bool   `json:"show_pricing,omitempty"`
}

// EmailResponse reports the provider message id for a delivered email.
type EmailResponse struct {
	MessageID string `json:"message_id"`
	Recipient string `json:"recipient"`
}

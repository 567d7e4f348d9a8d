package dto

import (
	"time"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// CreateInvoiceRequest selects products and custom lines to bill.
type CreateInvoiceRequest struct {
	OrderID     int64               `json:"order_id" binding:"required"`
	ProductIDs  []int64             `json:"product_ids,omitempty"`
	CustomLines []CustomLineRequest `json:"custom_lines,omitempty"`
	PaymentLink string              `json:"payment_link,omitempty"`
}

// CustomLineRequest is a free-form invoice line.
type CustomLineRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
}

// InvoiceResponse is a rendered invoice header.
type InvoiceResponse struct {
	ID          int64      `json:"id"`
	Number      string     `json:"number"`
	ClientID    int64      `json:"client_id"`
	OrderID     *int64     `json:"order_id,omitempty"`
	Total       float64    `json:"total"`
	PaymentLink string     `json:"payment_link,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// InvoiceItemResponse is one billed line.
type InvoiceItemResponse struct {
	ProductID   *int64  `json:"product_id,omitempty"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// InvoiceDetailResponse is an invoice with its lines.
type InvoiceDetailResponse struct {
	InvoiceResponse
	Items []InvoiceItemResponse `json:"items"`
}

// ToInvoiceResponse converts a domain invoice.
func ToInvoiceResponse(inv model.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		ClientID:    inv.ClientID,
		OrderID:     inv.OrderID,
		Total:       inv.Total,
		PaymentLink: inv.PaymentLink,
		SentAt:      inv.SentAt,
		CreatedAt:   inv.CreatedAt,
	}
}

// ToInvoiceDetailResponse converts an invoice with its lines.
func ToInvoiceDetailResponse(inv model.Invoice, items []model.InvoiceItem) InvoiceDetailResponse {
	resp := InvoiceDetailResponse{InvoiceResponse: ToInvoiceResponse(inv)}
	resp.Items = make([]InvoiceItemResponse, 0, len(items))
	for _, item := range items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount(),
		})
	}
	return resp
}

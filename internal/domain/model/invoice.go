package model

import "time"

// Invoice is an immutable snapshot of billed products plus custom lines.
type Invoice struct {
	ID          int64
	Number      string
	ClientID    int64
	OrderID     *int64
	Total       float64
	PaymentLink string
	PDFURL      string
	SentAt      *time.Time
	CreatedAt   time.Time
}

// InvoiceItem is one billed line, snapshotted at invoice creation so later
// product edits never change an issued invoice.
type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	ProductID   *int64
	Description string
	Quantity    int
	UnitPrice   float64
}

// Amount returns the line total.
func (i InvoiceItem) Amount() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

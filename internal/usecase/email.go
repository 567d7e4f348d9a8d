package usecase

import (
	"fmt"
	"strings"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// OrderEmailOptions tunes the composed order summary email.
type OrderEmailOptions struct {
	Subject       string
	CustomMessage string
	ShowPricing   bool
}

// ComposeOrderEmail renders the plain-text order summary sent to the client.
// Pricing, when requested, only ever includes client prices.
func ComposeOrderEmail(order *model.Order, products []model.OrderProduct, opts OrderEmailOptions) (subject, body string) {
	subject = opts.Subject
	if subject == "" {
		subject = fmt.Sprintf("Update on order %s", order.Number)
	}

	var b strings.Builder
	if opts.CustomMessage != "" {
		b.WriteString(opts.CustomMessage)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Order %s\n", order.Number)
	for _, p := range products {
		if opts.ShowPricing && p.ClientPrice != nil {
			fmt.Fprintf(&b, "- %s (%s): %.2f\n", p.Name, p.Status, *p.ClientPrice)
		} else {
			fmt.Fprintf(&b, "- %s (%s)\n", p.Name, p.Status)
		}
	}
	if order.SampleStatus != model.SampleStatusNone {
		fmt.Fprintf(&b, "\nSample status: %s\n", order.SampleStatus)
		if opts.ShowPricing && order.ClientSampleFee != nil {
			fmt.Fprintf(&b, "Sample fee: %.2f\n", *order.ClientSampleFee)
		}
	}
	return subject, b.String()
}

// ComposeInvoiceEmail renders the plain-text invoice email.
func ComposeInvoiceEmail(invoice *model.Invoice, items []model.InvoiceItem) (subject, body string) {
	subject = fmt.Sprintf("Invoice %s", invoice.Number)

	var b strings.Builder
	fmt.Fprintf(&b, "Invoice %s\n\n", invoice.Number)
	for _, item := range items {
		fmt.Fprintf(&b, "- %s x%d: %.2f\n", item.Description, item.Quantity, item.Amount())
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\n", invoice.Total)
	if invoice.PaymentLink != "" {
		fmt.Fprintf(&b, "Pay online: %s\n", invoice.PaymentLink)
	}
	return subject, b.String()
}

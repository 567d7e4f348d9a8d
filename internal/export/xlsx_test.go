package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	headers := []string{"Invoice", "Description"}
	rows := [][]string{{"ACM-00001", "chair"}, {"ACM-00001", "Total"}}

	if err := WriteXLSX(&buf, "Invoice", headers, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Invoice" {
		t.Fatalf("unexpected sheet list %v", sheets)
	}

	cells := map[string]string{
		"A1": "Invoice",
		"B1": "Description",
		"A2": "ACM-00001",
		"B2": "chair",
		"B3": "Total",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("Invoice", cell)
		if err != nil {
			t.Fatalf("failed to read cell %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s: expected %q, got %q", cell, want, got)
		}
	}
}

func TestInvoiceRows(t *testing.T) {
	invoice := &model.Invoice{Number: "ACM-00007", Total: 650}
	items := []model.InvoiceItem{
		{Description: "chair", Quantity: 5, UnitPrice: 120},
		{Description: "rush fee", Quantity: 1, UnitPrice: 50},
	}

	rows := InvoiceRows(invoice, items)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "ACM-00007" || rows[0][1] != "chair" || rows[0][2] != "5" || rows[0][4] != "600.00" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	last := rows[len(rows)-1]
	if last[1] != "Total" || last[4] != "650.00" {
		t.Fatalf("unexpected total row %v", last)
	}
}

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// WriteXLSX renders a single-sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, sheetName string, headers []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", column(i))
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell := fmt.Sprintf("%s%d", column(colIdx), rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	for i := range headers {
		col := column(i)
		if err := f.SetColWidth(sheetName, col, col, 18); err != nil {
			return err
		}
	}

	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func column(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}

// InvoiceHeaders is the column set of an exported invoice.
var InvoiceHeaders = []string{"Invoice", "Description", "Quantity", "Unit Price", "Amount"}

// InvoiceRows flattens an invoice with its lines for WriteXLSX.
func InvoiceRows(invoice *model.Invoice, items []model.InvoiceItem) [][]string {
	rows := make([][]string, 0, len(items)+1)
	for _, item := range items {
		rows = append(rows, []string{
			invoice.Number,
			item.Description,
			fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("%.2f", item.UnitPrice),
			fmt.Sprintf("%.2f", item.Amount()),
		})
	}
	rows = append(rows, []string{invoice.Number, "Total", "", "", fmt.Sprintf("%.2f", invoice.Total)})
	return rows
}

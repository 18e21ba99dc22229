// Package pdf renders invoices as downloadable PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"invoice-ledger/internal/core"

	"github.com/jung-kurt/gofpdf"
)

// RenderInvoice draws a single-page PDF for the invoice and returns the
// raw document bytes. The invoice's Status must already be resolved.
func RenderInvoice(inv *core.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Invoice: "+inv.InvoiceNumber)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Status: "+string(inv.Status))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 6, "Bill To:")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 6, inv.ClientName)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(40, 6, "Issue Date:")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(50, 6, inv.IssueDate.Format("2006-01-02"))
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(40, 6, "Due Date:")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 6, inv.DueDate.Format("2006-01-02"))
	pdf.Ln(14)

	// Line item table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(80, 7, "Item")
	pdf.Cell(30, 7, "Quantity")
	pdf.Cell(40, 7, "Unit Price")
	pdf.Cell(0, 7, "Total")
	pdf.Ln(7)
	pdf.Line(pdf.GetX(), pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	for _, item := range inv.Items {
		lineTotal, err := core.LineTotal(item)
		if err != nil {
			return nil, fmt.Errorf("invalid line item %q: %w", item.ItemName, err)
		}
		pdf.Cell(80, 7, item.ItemName)
		pdf.Cell(30, 7, strconv.Itoa(item.Quantity))
		pdf.Cell(40, 7, "$"+item.UnitPrice.StringFixed(2))
		pdf.Cell(0, 7, "$"+lineTotal.StringFixed(2))
		pdf.Ln(7)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(150, 7, "Subtotal")
	pdf.Cell(0, 7, "$"+inv.Subtotal.StringFixed(2))
	pdf.Ln(7)
	pdf.Cell(150, 7, "Tax")
	pdf.Cell(0, 7, "$"+inv.TaxAmount.StringFixed(2))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(150, 8, "Grand Total")
	pdf.Cell(0, 8, "$"+inv.Total.StringFixed(2))
	pdf.Ln(12)

	if len(inv.Payments) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Payments")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 12)
		for _, p := range inv.Payments {
			pdf.Cell(80, 6, p.PaymentDate.Format(time.DateOnly))
			pdf.Cell(40, 6, string(p.Method))
			pdf.Cell(0, 6, "$"+p.Amount.StringFixed(2))
			pdf.Ln(6)
		}
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(120, 7, "Balance Due")
		pdf.Cell(0, 7, "$"+core.BalanceDue(inv).StringFixed(2))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

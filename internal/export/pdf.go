package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"consignment-reconciliation-backend/internal/domain"
)

// ToPDF renders a printable statement for an analysis.
func ToPDF(a domain.Analysis) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	totals := a.Totals()

	pdf.Cell(0, 8, "Consignment Reconciliation Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Owner: %s", a.OwnerID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", a.Period.Format()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", a.Status))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Working days: %d, consignments: %d", totals.WorkingDays, totals.TotalConsignments))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Expected: %s, paid: %s, difference: %s",
		totals.ExpectedTotal.StringFixed(), totals.PaidTotal.StringFixed(), totals.DifferenceTotal.StringFixed()))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(24, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Consignments", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Base", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Bonus", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Expected", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Paid", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Difference", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, e := range a.Entries() {
		pdf.CellFormat(24, 6, e.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 6, e.Date.Weekday().String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(28, 6, fmt.Sprintf("%d", e.Consignments.Int()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, e.BasePayment.StringFixed(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, e.TotalBonus.StringFixed(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, e.ExpectedTotal.StringFixed(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, e.PaidAmount.StringFixed(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, e.Difference.StringFixed(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, string(e.Status), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

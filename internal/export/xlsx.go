package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"consignment-reconciliation-backend/internal/domain"
)

// ToXLSX renders a workbook with a summary sheet and an entries sheet.
func ToXLSX(a domain.Analysis) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	entriesSheet := "entries"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(entriesSheet); err != nil {
		return nil, err
	}

	totals := a.Totals()

	_ = f.SetCellValue(summarySheet, "A1", "Consignment Reconciliation")
	_ = f.SetCellValue(summarySheet, "A3", "Analysis")
	_ = f.SetCellValue(summarySheet, "B3", a.ID.String())
	_ = f.SetCellValue(summarySheet, "A4", "Owner")
	_ = f.SetCellValue(summarySheet, "B4", a.OwnerID)
	_ = f.SetCellValue(summarySheet, "A5", "Period")
	_ = f.SetCellValue(summarySheet, "B5", a.Period.Format())
	_ = f.SetCellValue(summarySheet, "A6", "Status")
	_ = f.SetCellValue(summarySheet, "B6", string(a.Status))
	_ = f.SetCellValue(summarySheet, "A7", "Rules Version")
	_ = f.SetCellValue(summarySheet, "B7", a.RulesVersion)
	_ = f.SetCellValue(summarySheet, "A8", "Working Days")
	_ = f.SetCellValue(summarySheet, "B8", totals.WorkingDays)
	_ = f.SetCellValue(summarySheet, "A9", "Total Consignments")
	_ = f.SetCellValue(summarySheet, "B9", totals.TotalConsignments)
	_ = f.SetCellValue(summarySheet, "A10", "Expected Total")
	_ = f.SetCellValue(summarySheet, "B10", totals.ExpectedTotal.StringFixed())
	_ = f.SetCellValue(summarySheet, "A11", "Paid Total")
	_ = f.SetCellValue(summarySheet, "B11", totals.PaidTotal.StringFixed())
	_ = f.SetCellValue(summarySheet, "A12", "Difference")
	_ = f.SetCellValue(summarySheet, "B12", totals.DifferenceTotal.StringFixed())

	for col, name := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(entriesSheet, cell, name)
	}
	for row, e := range a.Entries() {
		values := []interface{}{
			e.Date.Format("2006-01-02"),
			e.Date.Weekday().String(),
			e.Consignments.Int(),
			e.Rate.StringFixed(),
			e.BasePayment.StringFixed(),
			e.Pickups,
			e.PickupTotal.StringFixed(),
			e.UnloadingBonus.StringFixed(),
			e.AttendanceBonus.StringFixed(),
			e.EarlyBonus.StringFixed(),
			e.TotalBonus.StringFixed(),
			e.ExpectedTotal.StringFixed(),
			e.PaidAmount.StringFixed(),
			e.Difference.StringFixed(),
			string(e.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(entriesSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: writing xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

package export

import (
	"strconv"
	"strings"

	"consignment-reconciliation-backend/internal/domain"
)

var csvHeader = []string{
	"Date", "Day", "Consignments", "Rate", "Base Payment", "Pickups",
	"Pickup Total", "Unloading Bonus", "Attendance Bonus", "Early Bonus",
	"Total Bonus", "Expected Total", "Paid Amount", "Difference", "Status",
}

// ToCSV renders one row per daily entry. Monetary fields carry two decimal
// places; fields containing quotes, commas or newlines are quoted with
// inner quotes doubled.
func ToCSV(a domain.Analysis) []byte {
	var b strings.Builder
	writeRow(&b, csvHeader)

	for _, e := range a.Entries() {
		writeRow(&b, []string{
			e.Date.Format("2006-01-02"),
			e.Date.Weekday().String(),
			strconv.Itoa(e.Consignments.Int()),
			e.Rate.StringFixed(),
			e.BasePayment.StringFixed(),
			strconv.Itoa(e.Pickups),
			e.PickupTotal.StringFixed(),
			e.UnloadingBonus.StringFixed(),
			e.AttendanceBonus.StringFixed(),
			e.EarlyBonus.StringFixed(),
			e.TotalBonus.StringFixed(),
			e.ExpectedTotal.StringFixed(),
			e.PaidAmount.StringFixed(),
			e.Difference.StringFixed(),
			string(e.Status),
		})
	}
	return []byte(b.String())
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(f))
	}
	b.WriteByte('\n')
}

func escapeField(f string) string {
	if !strings.ContainsAny(f, "\",\n") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

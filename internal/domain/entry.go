package domain

import "time"

// EntryStatus classifies the paid-vs-expected difference of one day.
type EntryStatus string

const (
	StatusBalanced  EntryStatus = "balanced"
	StatusOverpaid  EntryStatus = "overpaid"
	StatusUnderpaid EntryStatus = "underpaid"
)

// DailyEntry is the fully computed record for one date within an analysis.
// Entries are built by BuildEntry and rebuilt by the merge engine; they are
// never partially mutated.
type DailyEntry struct {
	Date            time.Time
	Consignments    ConsignmentCount
	Rate            Money
	BasePayment     Money
	Pickups         int
	PickupTotal     Money
	UnloadingBonus  Money
	AttendanceBonus Money
	EarlyBonus      Money
	TotalBonus      Money
	ExpectedTotal   Money
	PaidAmount      Money
	Difference      Money
	Status          EntryStatus
}

// BuildEntry computes a complete daily entry from extracted inputs and the
// active rule version. Pure function; the difference convention is always
// paid - expected. Bonuses apply only on days with at least one consignment,
// so an invoice-only day reconciles against a zero expectation.
func BuildEntry(date time.Time, consignments ConsignmentCount, paid Money, pickups int, rules PaymentRules) DailyEntry {
	d := DateOnly(date)
	day := d.Weekday()

	rate := rules.RateForDay(day)
	var bonuses Bonuses
	if consignments > 0 {
		bonuses = rules.BonusesForDay(day)
	}

	e := DailyEntry{
		Date:            d,
		Consignments:    consignments,
		Rate:            rate,
		BasePayment:     rate.MulInt(consignments.Int()),
		Pickups:         pickups,
		PickupTotal:     rules.PickupRate.MulInt(pickups),
		UnloadingBonus:  bonuses.Unloading,
		AttendanceBonus: bonuses.Attendance,
		EarlyBonus:      bonuses.Early,
		PaidAmount:      paid,
	}
	return e.recalculated()
}

// WithPaidAmount returns a copy with the paid side replaced and the derived
// fields recomputed.
func (e DailyEntry) WithPaidAmount(paid Money) DailyEntry {
	e.PaidAmount = paid
	return e.recalculated()
}

// recalculated re-derives every computed field from the stored parts.
func (e DailyEntry) recalculated() DailyEntry {
	e.TotalBonus = e.UnloadingBonus.Add(e.AttendanceBonus).Add(e.EarlyBonus)
	e.ExpectedTotal = e.BasePayment.Add(e.TotalBonus).Add(e.PickupTotal)
	e.Difference = e.PaidAmount.Sub(e.ExpectedTotal)

	switch {
	case e.Difference.IsZero():
		e.Status = StatusBalanced
	case e.Difference.IsPositive():
		e.Status = StatusOverpaid
	default:
		e.Status = StatusUnderpaid
	}
	return e
}

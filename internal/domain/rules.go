package domain

import "time"

// PaymentRules is one version of the contractor pay policy. A version is
// valid over a date window; the most recently created version wins when
// windows overlap.
type PaymentRules struct {
	Version         string
	WeekdayRate     Money
	SaturdayRate    Money
	UnloadingBonus  Money
	AttendanceBonus Money
	EarlyBonus      Money
	PickupRate      Money
	ValidFrom       time.Time
	ValidTo         time.Time
	CreatedAt       time.Time
}

// Bonuses holds the bonus amounts applicable to a single day.
type Bonuses struct {
	Unloading  Money
	Attendance Money
	Early      Money
}

// Total sums the three bonus components.
func (b Bonuses) Total() Money {
	return b.Unloading.Add(b.Attendance).Add(b.Early)
}

// bonusEligibility is the single source of truth for which bonuses apply
// on which weekday. Sunday gets nothing, Monday skips unloading, Saturday
// only gets unloading.
var bonusEligibility = map[time.Weekday]struct {
	unloading  bool
	attendance bool
	early      bool
}{
	time.Sunday:    {false, false, false},
	time.Monday:    {false, true, true},
	time.Tuesday:   {true, true, true},
	time.Wednesday: {true, true, true},
	time.Thursday:  {true, true, true},
	time.Friday:    {true, true, true},
	time.Saturday:  {true, false, false},
}

// IsActive reports whether the version's validity window contains date.
func (r PaymentRules) IsActive(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(r.ValidFrom)) && !d.After(DateOnly(r.ValidTo))
}

// RateForDay returns the per-consignment rate for a weekday. Saturday has
// its own rate, every other day pays the weekday rate.
func (r PaymentRules) RateForDay(day time.Weekday) Money {
	if day == time.Saturday {
		return r.SaturdayRate
	}
	return r.WeekdayRate
}

// BonusesForDay returns the bonus amounts applicable on a weekday.
func (r PaymentRules) BonusesForDay(day time.Weekday) Bonuses {
	e := bonusEligibility[day]
	var b Bonuses
	if e.unloading {
		b.Unloading = r.UnloadingBonus
	}
	if e.attendance {
		b.Attendance = r.AttendanceBonus
	}
	if e.early {
		b.Early = r.EarlyBonus
	}
	return b
}

// ActiveVersion selects the rule version whose window contains date.
// If several are active, the most recently created wins.
func ActiveVersion(versions []PaymentRules, date time.Time) (PaymentRules, error) {
	var best PaymentRules
	found := false
	for _, v := range versions {
		if !v.IsActive(date) {
			continue
		}
		if !found || !v.CreatedAt.Before(best.CreatedAt) {
			best = v
			found = true
		}
	}
	if !found {
		return PaymentRules{}, ErrNoActiveRules
	}
	return best, nil
}

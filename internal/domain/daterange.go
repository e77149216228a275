package domain

import "time"

// DateRange is an inclusive start/end pair of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both bounds to midnight UTC and validates order.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := DateOnly(start)
	e := DateOnly(end)
	if e.Before(s) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: s, End: e}, nil
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Contains reports whether date falls within the range, inclusive.
func (r DateRange) Contains(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(r.Start) && !d.After(r.End)
}

// DayCount returns the number of calendar days covered, inclusive.
func (r DateRange) DayCount() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Format renders the range as "02 Jan 2006 - 02 Jan 2006".
func (r DateRange) Format() string {
	return r.Start.Format("02 Jan 2006") + " - " + r.End.Format("02 Jan 2006")
}

package domain

import "errors"

var (
	// ErrNegativeCount is returned when a consignment or pickup count is negative.
	ErrNegativeCount = errors.New("domain: negative count")
	// ErrInvalidRange is returned when a date range ends before it starts.
	ErrInvalidRange = errors.New("domain: range end before start")
	// ErrDateOutsidePeriod is returned when an entry date falls outside the analysis period.
	ErrDateOutsidePeriod = errors.New("domain: date outside analysis period")
	// ErrNoActiveRules is returned when no rule version covers a date.
	ErrNoActiveRules = errors.New("domain: no active payment rules for date")
	// ErrInvalidTransition is returned on a disallowed analysis status transition.
	ErrInvalidTransition = errors.New("domain: invalid status transition")
)

package merge

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"consignment-reconciliation-backend/internal/domain"
	"consignment-reconciliation-backend/internal/services/extraction"
)

// Strategy governs how a new invoice-sourced payment combines with an
// already-recorded payment for the same date.
//
// Replace is idempotent under repeated identical input. Add is not:
// re-applying the same submission increases the paid amount again. Smart
// behaves as Replace when exactly one payment line maps to a date and as
// Add when several do, so it inherits Add's non-idempotence in the
// multi-line case. Callers re-submitting the same invoice must pick
// Replace if they want a no-op.
type Strategy string

const (
	StrategyReplace Strategy = "replace"
	StrategyAdd     Strategy = "add"
	StrategyMax     Strategy = "max"
	StrategySmart   Strategy = "smart"
)

// ParseStrategy validates a caller-supplied strategy name. Empty input
// selects Smart, the historical default.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyReplace, StrategyAdd, StrategyMax, StrategySmart:
		return Strategy(s), nil
	case "":
		return StrategySmart, nil
	}
	return "", fmt.Errorf("merge: unknown strategy %q", s)
}

// Engine integrates a new extraction batch into an existing analysis.
type Engine struct {
	log zerolog.Logger
}

func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "merge").Logger()}
}

// Apply returns a new analysis snapshot with the batch merged in. Runsheet
// data is authoritative for the expected side and always overwrites; invoice
// data is combined with stored paid amounts per the strategy. Dates outside
// the analysis period are skipped with a warning. Aggregate totals are never
// touched here: they are derived from the full entry set on read.
func (e *Engine) Apply(a domain.Analysis, batch extraction.Batch, rules domain.PaymentRules, strategy Strategy) (domain.Analysis, []string) {
	var warnings []string
	next := a

	// Runsheet side first, so an invoice for a freshly created date merges
	// into the new entry.
	for _, date := range sortedRunsheetDates(batch.Runsheet) {
		day := batch.Runsheet[date]
		count, err := domain.NewConsignmentCount(day.Consignments)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("merge: invalid consignment count for %s, skipped", date.Format("2006-01-02")))
			continue
		}

		paid := domain.Zero()
		if existing, ok := next.EntryFor(date); ok {
			paid = existing.PaidAmount
		}
		entry := domain.BuildEntry(date, count, paid, day.Pickups, rules)

		updated, err := next.WithEntry(entry)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("merge: %s outside period, skipped", date.Format("2006-01-02")))
			continue
		}
		next = updated
	}

	for _, date := range sortedInvoiceDates(batch.Invoice) {
		lines := batch.Invoice[date]
		total := domain.Zero()
		for _, amount := range lines {
			total = total.Add(amount)
		}

		var entry domain.DailyEntry
		if existing, ok := next.EntryFor(date); ok {
			entry = existing.WithPaidAmount(applyStrategy(strategy, existing.PaidAmount, total, len(lines)))
		} else {
			entry = domain.BuildEntry(date, 0, total, 0, rules)
		}

		updated, err := next.WithEntry(entry)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("merge: %s outside period, skipped", date.Format("2006-01-02")))
			continue
		}
		next = updated
	}

	if len(warnings) > 0 {
		e.log.Warn().Int("count", len(warnings)).Msg("Merge skipped out-of-period or invalid records")
	}
	return next, warnings
}

// applyStrategy combines the stored paid amount with the new invoice total
// for a date. lineCount is how many payment lines mapped to the date, which
// Smart uses to guess "corrected payment" (one line) vs "partial payments"
// (several).
func applyStrategy(strategy Strategy, stored, incoming domain.Money, lineCount int) domain.Money {
	switch strategy {
	case StrategyReplace:
		return incoming
	case StrategyAdd:
		return stored.Add(incoming)
	case StrategyMax:
		return stored.Max(incoming)
	case StrategySmart:
		if lineCount == 1 {
			return incoming
		}
		return stored.Add(incoming)
	}
	return stored
}

func sortedRunsheetDates(m map[time.Time]extraction.RunsheetDay) []time.Time {
	dates := make([]time.Time, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func sortedInvoiceDates(m map[time.Time][]domain.Money) []time.Time {
	dates := make([]time.Time, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus is the lifecycle state of an analysis.
type AnalysisStatus string

const (
	AnalysisPending    AnalysisStatus = "pending"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisError      AnalysisStatus = "error"
)

// AnalysisSource records where an analysis came from.
type AnalysisSource string

const (
	SourceUpload AnalysisSource = "upload"
	SourceManual AnalysisSource = "manual"
	SourceImport AnalysisSource = "import"
)

// allowedTransitions encodes the lifecycle: pending -> processing ->
// completed|error, and completed -> processing on resubmission.
var allowedTransitions = map[AnalysisStatus][]AnalysisStatus{
	AnalysisPending:    {AnalysisProcessing},
	AnalysisProcessing: {AnalysisCompleted, AnalysisError},
	AnalysisCompleted:  {AnalysisProcessing},
	AnalysisError:      {AnalysisProcessing},
}

// Totals are the aggregate sums over the current entry set. They are always
// derived by a full fold, never patched incrementally.
type Totals struct {
	WorkingDays       int
	TotalConsignments int
	BaseTotal         Money
	BonusTotal        Money
	PickupTotal       Money
	ExpectedTotal     Money
	PaidTotal         Money
	DifferenceTotal   Money
}

// Analysis is an immutable snapshot of one reconciliation period. Transform
// methods return a new snapshot; callers never mutate one in place.
type Analysis struct {
	ID           uuid.UUID
	OwnerID      string
	Fingerprint  string // empty for manual/import analyses
	Source       AnalysisSource
	Status       AnalysisStatus
	Period       DateRange
	RulesVersion string
	Metadata     map[string]string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	entries []DailyEntry // date-unique, ascending
}

// NewAnalysis creates a pending analysis for a period.
func NewAnalysis(ownerID string, period DateRange, source AnalysisSource, fingerprint string) Analysis {
	now := time.Now().UTC()
	return Analysis{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Fingerprint: fingerprint,
		Source:      source,
		Status:      AnalysisPending,
		Period:      period,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Rehydrate reconstructs a snapshot from persisted state. Entries are
// sorted but otherwise trusted; timestamps are preserved as stored.
func Rehydrate(base Analysis, entries []DailyEntry) Analysis {
	es := make([]DailyEntry, len(entries))
	copy(es, entries)
	sort.Slice(es, func(i, j int) bool { return es[i].Date.Before(es[j].Date) })
	base.entries = es
	return base
}

// Entries returns a copy of the ordered entry set.
func (a Analysis) Entries() []DailyEntry {
	out := make([]DailyEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// EntryFor looks up the entry for a date, if any.
func (a Analysis) EntryFor(date time.Time) (DailyEntry, bool) {
	d := DateOnly(date)
	for _, e := range a.entries {
		if e.Date.Equal(d) {
			return e, true
		}
	}
	return DailyEntry{}, false
}

// WithEntry returns a snapshot with the entry added. An entry outside the
// analysis period is rejected; an entry for an existing date replaces it.
// The entry set stays sorted ascending by date.
func (a Analysis) WithEntry(e DailyEntry) (Analysis, error) {
	if !a.Period.Contains(e.Date) {
		return a, ErrDateOutsidePeriod
	}

	entries := make([]DailyEntry, 0, len(a.entries)+1)
	replaced := false
	for _, cur := range a.entries {
		if cur.Date.Equal(e.Date) {
			entries = append(entries, e)
			replaced = true
			continue
		}
		entries = append(entries, cur)
	}
	if !replaced {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	a.entries = entries
	a.UpdatedAt = time.Now().UTC()
	return a, nil
}

// WithEntries replaces the whole entry set, applying the same per-entry
// validation as WithEntry.
func (a Analysis) WithEntries(entries []DailyEntry) (Analysis, error) {
	next := a
	next.entries = nil
	var err error
	for _, e := range entries {
		next, err = next.WithEntry(e)
		if err != nil {
			return a, err
		}
	}
	return next, nil
}

// WithStatus transitions the lifecycle state.
func (a Analysis) WithStatus(status AnalysisStatus) (Analysis, error) {
	if status == a.Status {
		return a, nil
	}
	for _, allowed := range allowedTransitions[a.Status] {
		if status == allowed {
			a.Status = status
			if status != AnalysisError {
				a.ErrorMessage = ""
			}
			a.UpdatedAt = time.Now().UTC()
			return a, nil
		}
	}
	return a, ErrInvalidTransition
}

// WithError transitions to the error state, retaining the message.
func (a Analysis) WithError(message string) (Analysis, error) {
	next, err := a.WithStatus(AnalysisError)
	if err != nil {
		return a, err
	}
	next.ErrorMessage = message
	return next, nil
}

// WithRulesVersion records the rule version the entries were computed with.
func (a Analysis) WithRulesVersion(version string) Analysis {
	a.RulesVersion = version
	a.UpdatedAt = time.Now().UTC()
	return a
}

// WithMetadata sets a metadata key on a copied map.
func (a Analysis) WithMetadata(key, value string) Analysis {
	md := make(map[string]string, len(a.Metadata)+1)
	for k, v := range a.Metadata {
		md[k] = v
	}
	md[key] = value
	a.Metadata = md
	a.UpdatedAt = time.Now().UTC()
	return a
}

// Totals folds the full current entry set. Working days count entries with
// at least one consignment.
func (a Analysis) Totals() Totals {
	var t Totals
	for _, e := range a.entries {
		if e.Consignments > 0 {
			t.WorkingDays++
		}
		t.TotalConsignments += e.Consignments.Int()
		t.BaseTotal = t.BaseTotal.Add(e.BasePayment)
		t.BonusTotal = t.BonusTotal.Add(e.TotalBonus)
		t.PickupTotal = t.PickupTotal.Add(e.PickupTotal)
		t.ExpectedTotal = t.ExpectedTotal.Add(e.ExpectedTotal)
		t.PaidTotal = t.PaidTotal.Add(e.PaidAmount)
		t.DifferenceTotal = t.DifferenceTotal.Add(e.Difference)
	}
	return t
}

package export

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"consignment-reconciliation-backend/internal/domain"
)

// SerializedAnalysis is the external, round-trippable analysis shape.
type SerializedAnalysis struct {
	ID                uuid.UUID         `json:"id"`
	UserID            string            `json:"userId"`
	Fingerprint       *string           `json:"fingerprint"`
	Source            string            `json:"source"`
	Status            string            `json:"status"`
	PeriodStart       string            `json:"periodStart"`
	PeriodEnd         string            `json:"periodEnd"`
	RulesVersion      string            `json:"rulesVersion"`
	WorkingDays       int               `json:"workingDays"`
	TotalConsignments int               `json:"totalConsignments"`
	DailyEntries      []SerializedEntry `json:"dailyEntries"`
	Totals            SerializedTotals  `json:"totals"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	ErrorMessage      string            `json:"errorMessage,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type SerializedEntry struct {
	Date            string       `json:"date"`
	Day             string       `json:"day"`
	Consignments    int          `json:"consignments"`
	Rate            domain.Money `json:"rate"`
	BasePayment     domain.Money `json:"basePayment"`
	Pickups         int          `json:"pickups"`
	PickupTotal     domain.Money `json:"pickupTotal"`
	UnloadingBonus  domain.Money `json:"unloadingBonus"`
	AttendanceBonus domain.Money `json:"attendanceBonus"`
	EarlyBonus      domain.Money `json:"earlyBonus"`
	TotalBonus      domain.Money `json:"totalBonus"`
	ExpectedTotal   domain.Money `json:"expectedTotal"`
	PaidAmount      domain.Money `json:"paidAmount"`
	Difference      domain.Money `json:"difference"`
	Status          string       `json:"status"`
}

type SerializedTotals struct {
	BaseTotal       domain.Money `json:"baseTotal"`
	BonusTotal      domain.Money `json:"bonusTotal"`
	PickupTotal     domain.Money `json:"pickupTotal"`
	ExpectedTotal   domain.Money `json:"expectedTotal"`
	PaidTotal       domain.Money `json:"paidTotal"`
	DifferenceTotal domain.Money `json:"differenceTotal"`
}

// Serialize flattens an analysis snapshot into its external shape.
func Serialize(a domain.Analysis) SerializedAnalysis {
	totals := a.Totals()

	var fp *string
	if a.Fingerprint != "" {
		v := a.Fingerprint
		fp = &v
	}

	entries := a.Entries()
	serialized := make([]SerializedEntry, 0, len(entries))
	for _, e := range entries {
		serialized = append(serialized, SerializedEntry{
			Date:            e.Date.Format("2006-01-02"),
			Day:             e.Date.Weekday().String(),
			Consignments:    e.Consignments.Int(),
			Rate:            e.Rate,
			BasePayment:     e.BasePayment,
			Pickups:         e.Pickups,
			PickupTotal:     e.PickupTotal,
			UnloadingBonus:  e.UnloadingBonus,
			AttendanceBonus: e.AttendanceBonus,
			EarlyBonus:      e.EarlyBonus,
			TotalBonus:      e.TotalBonus,
			ExpectedTotal:   e.ExpectedTotal,
			PaidAmount:      e.PaidAmount,
			Difference:      e.Difference,
			Status:          string(e.Status),
		})
	}

	return SerializedAnalysis{
		ID:                a.ID,
		UserID:            a.OwnerID,
		Fingerprint:       fp,
		Source:            string(a.Source),
		Status:            string(a.Status),
		PeriodStart:       a.Period.Start.Format("2006-01-02"),
		PeriodEnd:         a.Period.End.Format("2006-01-02"),
		RulesVersion:      a.RulesVersion,
		WorkingDays:       totals.WorkingDays,
		TotalConsignments: totals.TotalConsignments,
		DailyEntries:      serialized,
		Totals: SerializedTotals{
			BaseTotal:       totals.BaseTotal,
			BonusTotal:      totals.BonusTotal,
			PickupTotal:     totals.PickupTotal,
			ExpectedTotal:   totals.ExpectedTotal,
			PaidTotal:       totals.PaidTotal,
			DifferenceTotal: totals.DifferenceTotal,
		},
		Metadata:     a.Metadata,
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ToJSON renders the serialized analysis.
func ToJSON(a domain.Analysis) ([]byte, error) {
	return json.MarshalIndent(Serialize(a), "", "  ")
}

// FromJSON rebuilds an analysis snapshot from its serialized form. Dates,
// counts and stored amounts round-trip exactly; totals are re-derived from
// the entries on read, as everywhere else.
func FromJSON(data []byte) (domain.Analysis, error) {
	var s SerializedAnalysis
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Analysis{}, err
	}

	start, err := time.Parse("2006-01-02", s.PeriodStart)
	if err != nil {
		return domain.Analysis{}, err
	}
	end, err := time.Parse("2006-01-02", s.PeriodEnd)
	if err != nil {
		return domain.Analysis{}, err
	}
	period, err := domain.NewDateRange(start, end)
	if err != nil {
		return domain.Analysis{}, err
	}

	fp := ""
	if s.Fingerprint != nil {
		fp = *s.Fingerprint
	}

	base := domain.Analysis{
		ID:           s.ID,
		OwnerID:      s.UserID,
		Fingerprint:  fp,
		Source:       domain.AnalysisSource(s.Source),
		Status:       domain.AnalysisStatus(s.Status),
		Period:       period,
		RulesVersion: s.RulesVersion,
		Metadata:     s.Metadata,
		ErrorMessage: s.ErrorMessage,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	entries := make([]domain.DailyEntry, 0, len(s.DailyEntries))
	for _, e := range s.DailyEntries {
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return domain.Analysis{}, err
		}
		count, err := domain.NewConsignmentCount(e.Consignments)
		if err != nil {
			return domain.Analysis{}, err
		}
		entries = append(entries, domain.DailyEntry{
			Date:            domain.DateOnly(date),
			Consignments:    count,
			Rate:            e.Rate,
			BasePayment:     e.BasePayment,
			Pickups:         e.Pickups,
			PickupTotal:     e.PickupTotal,
			UnloadingBonus:  e.UnloadingBonus,
			AttendanceBonus: e.AttendanceBonus,
			EarlyBonus:      e.EarlyBonus,
			TotalBonus:      e.TotalBonus,
			ExpectedTotal:   e.ExpectedTotal,
			PaidAmount:      e.PaidAmount,
			Difference:      e.Difference,
			Status:          domain.EntryStatus(e.Status),
		})
	}

	return domain.Rehydrate(base, entries), nil
}

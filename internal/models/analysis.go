package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"consignment-reconciliation-backend/internal/domain"
)

type Analysis struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID      string    `gorm:"index"`
	Fingerprint  *string   `gorm:"index"`
	Source       string
	Status       string `gorm:"index"`
	PeriodStart  time.Time
	PeriodEnd    time.Time
	RulesVersion string
	Metadata     datatypes.JSON
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DailyEntry struct {
	AnalysisID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date            time.Time `gorm:"primaryKey"`
	Consignments    int
	Rate            decimal.Decimal `gorm:"type:decimal(20,4)"`
	BasePayment     decimal.Decimal `gorm:"type:decimal(20,4)"`
	Pickups         int
	PickupTotal     decimal.Decimal `gorm:"type:decimal(20,4)"`
	UnloadingBonus  decimal.Decimal `gorm:"type:decimal(20,4)"`
	AttendanceBonus decimal.Decimal `gorm:"type:decimal(20,4)"`
	EarlyBonus      decimal.Decimal `gorm:"type:decimal(20,4)"`
	TotalBonus      decimal.Decimal `gorm:"type:decimal(20,4)"`
	ExpectedTotal   decimal.Decimal `gorm:"type:decimal(20,4)"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(20,4)"`
	Difference      decimal.Decimal `gorm:"type:decimal(20,4)"`
	Status          string          `gorm:"index"`
}

// AnalysisFromDomain flattens a snapshot into rows.
func AnalysisFromDomain(a domain.Analysis) (Analysis, []DailyEntry) {
	var fp *string
	if a.Fingerprint != "" {
		v := a.Fingerprint
		fp = &v
	}

	var md datatypes.JSON
	if len(a.Metadata) > 0 {
		b, _ := json.Marshal(a.Metadata)
		md = datatypes.JSON(b)
	}

	row := Analysis{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		Fingerprint:  fp,
		Source:       string(a.Source),
		Status:       string(a.Status),
		PeriodStart:  a.Period.Start,
		PeriodEnd:    a.Period.End,
		RulesVersion: a.RulesVersion,
		Metadata:     md,
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	domainEntries := a.Entries()
	entries := make([]DailyEntry, 0, len(domainEntries))
	for _, e := range domainEntries {
		entries = append(entries, DailyEntry{
			AnalysisID:      a.ID,
			Date:            e.Date,
			Consignments:    e.Consignments.Int(),
			Rate:            e.Rate.Decimal(),
			BasePayment:     e.BasePayment.Decimal(),
			Pickups:         e.Pickups,
			PickupTotal:     e.PickupTotal.Decimal(),
			UnloadingBonus:  e.UnloadingBonus.Decimal(),
			AttendanceBonus: e.AttendanceBonus.Decimal(),
			EarlyBonus:      e.EarlyBonus.Decimal(),
			TotalBonus:      e.TotalBonus.Decimal(),
			ExpectedTotal:   e.ExpectedTotal.Decimal(),
			PaidAmount:      e.PaidAmount.Decimal(),
			Difference:      e.Difference.Decimal(),
			Status:          string(e.Status),
		})
	}
	return row, entries
}

// ToDomain rebuilds the snapshot from rows.
func (row Analysis) ToDomain(entries []DailyEntry) (domain.Analysis, error) {
	period, err := domain.NewDateRange(row.PeriodStart, row.PeriodEnd)
	if err != nil {
		return domain.Analysis{}, err
	}

	fp := ""
	if row.Fingerprint != nil {
		fp = *row.Fingerprint
	}

	var md map[string]string
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &md); err != nil {
			return domain.Analysis{}, err
		}
	}

	base := domain.Analysis{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		Fingerprint:  fp,
		Source:       domain.AnalysisSource(row.Source),
		Status:       domain.AnalysisStatus(row.Status),
		Period:       period,
		RulesVersion: row.RulesVersion,
		Metadata:     md,
		ErrorMessage: row.ErrorMessage,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	domainEntries := make([]domain.DailyEntry, 0, len(entries))
	for _, e := range entries {
		count, err := domain.NewConsignmentCount(e.Consignments)
		if err != nil {
			return domain.Analysis{}, err
		}
		domainEntries = append(domainEntries, domain.DailyEntry{
			Date:            domain.DateOnly(e.Date),
			Consignments:    count,
			Rate:            domain.NewMoney(e.Rate),
			BasePayment:     domain.NewMoney(e.BasePayment),
			Pickups:         e.Pickups,
			PickupTotal:     domain.NewMoney(e.PickupTotal),
			UnloadingBonus:  domain.NewMoney(e.UnloadingBonus),
			AttendanceBonus: domain.NewMoney(e.AttendanceBonus),
			EarlyBonus:      domain.NewMoney(e.EarlyBonus),
			TotalBonus:      domain.NewMoney(e.TotalBonus),
			ExpectedTotal:   domain.NewMoney(e.ExpectedTotal),
			PaidAmount:      domain.NewMoney(e.PaidAmount),
			Difference:      domain.NewMoney(e.Difference),
			Status:          domain.EntryStatus(e.Status),
		})
	}

	return domain.Rehydrate(base, domainEntries), nil
}

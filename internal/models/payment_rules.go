package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"consignment-reconciliation-backend/internal/domain"
)

type PaymentRules struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Version         string          `gorm:"uniqueIndex"`
	WeekdayRate     decimal.Decimal `gorm:"type:decimal(20,4)"`
	SaturdayRate    decimal.Decimal `gorm:"type:decimal(20,4)"`
	UnloadingBonus  decimal.Decimal `gorm:"type:decimal(20,4)"`
	AttendanceBonus decimal.Decimal `gorm:"type:decimal(20,4)"`
	EarlyBonus      decimal.Decimal `gorm:"type:decimal(20,4)"`
	PickupRate      decimal.Decimal `gorm:"type:decimal(20,4)"`
	ValidFrom       time.Time
	ValidTo         time.Time
	CreatedAt       time.Time
}

func RulesFromDomain(r domain.PaymentRules) PaymentRules {
	return PaymentRules{
		ID:              uuid.New(),
		Version:         r.Version,
		WeekdayRate:     r.WeekdayRate.Decimal(),
		SaturdayRate:    r.SaturdayRate.Decimal(),
		UnloadingBonus:  r.UnloadingBonus.Decimal(),
		AttendanceBonus: r.AttendanceBonus.Decimal(),
		EarlyBonus:      r.EarlyBonus.Decimal(),
		PickupRate:      r.PickupRate.Decimal(),
		ValidFrom:       r.ValidFrom,
		ValidTo:         r.ValidTo,
		CreatedAt:       r.CreatedAt,
	}
}

func (row PaymentRules) ToDomain() domain.PaymentRules {
	return domain.PaymentRules{
		Version:         row.Version,
		WeekdayRate:     domain.NewMoney(row.WeekdayRate),
		SaturdayRate:    domain.NewMoney(row.SaturdayRate),
		UnloadingBonus:  domain.NewMoney(row.UnloadingBonus),
		AttendanceBonus: domain.NewMoney(row.AttendanceBonus),
		EarlyBonus:      domain.NewMoney(row.EarlyBonus),
		PickupRate:      domain.NewMoney(row.PickupRate),
		ValidFrom:       row.ValidFrom,
		ValidTo:         row.ValidTo,
		CreatedAt:       row.CreatedAt,
	}
}

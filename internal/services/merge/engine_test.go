package merge

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consignment-reconciliation-backend/internal/domain"
	"consignment-reconciliation-backend/internal/services/extraction"
)

func testRules() domain.PaymentRules {
	return domain.PaymentRules{
		Version:         "2025-standard",
		WeekdayRate:     domain.MoneyFromInt(100),
		SaturdayRate:    domain.MoneyFromInt(120),
		UnloadingBonus:  domain.MoneyFromInt(30),
		AttendanceBonus: domain.MoneyFromInt(25),
		EarlyBonus:      domain.MoneyFromInt(50),
		PickupRate:      domain.MoneyFromInt(10),
		ValidFrom:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:         time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func testAnalysis(t *testing.T) domain.Analysis {
	t.Helper()
	period, err := domain.NewDateRange(
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return domain.NewAnalysis("user-1", period, domain.SourceUpload, "fp")
}

func testEngine() *Engine {
	return NewEngine(zerolog.Nop())
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func invoiceBatch(date time.Time, amounts ...int64) extraction.Batch {
	lines := make([]domain.Money, 0, len(amounts))
	for _, a := range amounts {
		lines = append(lines, domain.MoneyFromInt(a))
	}
	return extraction.Batch{Invoice: map[time.Time][]domain.Money{date: lines}}
}

func TestParseStrategy(t *testing.T) {
	for _, name := range []string{"replace", "add", "max", "smart"} {
		got, err := ParseStrategy(name)
		require.NoError(t, err)
		assert.Equal(t, Strategy(name), got)
	}

	got, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategySmart, got)

	_, err = ParseStrategy("overwrite")
	assert.Error(t, err)
}

func TestApplyRunsheetCreatesEntries(t *testing.T) {
	batch := extraction.Batch{
		Runsheet: map[time.Time]extraction.RunsheetDay{
			day(7): {Consignments: 5, Pickups: 1},
		},
	}

	a, warnings := testEngine().Apply(testAnalysis(t), batch, testRules(), StrategySmart)
	require.Empty(t, warnings)

	entry, ok := a.EntryFor(day(7))
	require.True(t, ok)
	assert.Equal(t, 5, entry.Consignments.Int())
	// Tuesday: 5x100 + 105 bonus + 1x10 pickup.
	assert.True(t, entry.ExpectedTotal.Equal(domain.MoneyFromInt(615)))
	assert.True(t, entry.PaidAmount.IsZero())
}

func TestApplyRunsheetOverwritePreservesPaid(t *testing.T) {
	engine := testEngine()
	rules := testRules()

	a, _ := engine.Apply(testAnalysis(t), invoiceBatch(day(7), 560), rules, StrategyReplace)

	rerun := extraction.Batch{
		Runsheet: map[time.Time]extraction.RunsheetDay{day(7): {Consignments: 5}},
	}
	a, warnings := engine.Apply(a, rerun, rules, StrategyReplace)
	require.Empty(t, warnings)

	entry, ok := a.EntryFor(day(7))
	require.True(t, ok)
	assert.Equal(t, 5, entry.Consignments.Int())
	assert.True(t, entry.PaidAmount.Equal(domain.MoneyFromInt(560)))
	assert.True(t, entry.Difference.Equal(domain.MoneyFromInt(-45)))
}

func TestApplyReplaceIsIdempotent(t *testing.T) {
	engine := testEngine()
	rules := testRules()

	a, _ := engine.Apply(testAnalysis(t), invoiceBatch(day(7), 560), rules, StrategyReplace)
	a, _ = engine.Apply(a, invoiceBatch(day(7), 560), rules, StrategyReplace)

	entry, _ := a.EntryFor(day(7))
	assert.True(t, entry.PaidAmount.Equal(domain.MoneyFromInt(560)))
}

func TestApplyAddAccumulates(t *testing.T) {
	engine := testEngine()
	rules := testRules()

	a, _ := engine.Apply(testAnalysis(t), invoiceBatch(day(7), 300), rules, StrategyAdd)
	a, _ = engine.Apply(a, invoiceBatch(day(7), 260), rules, StrategyAdd)

	entry, _ := a.EntryFor(day(7))
	assert.True(t, entry.PaidAmount.Equal(domain.MoneyFromInt(560)))
}

func TestApplyMaxKeepsLarger(t *testing.T) {
	engine := testEngine()
	rules := testRules()

	a, _ := engine.Apply(testAnalysis(t), invoiceBatch(day(7), 560), rules, StrategyMax)
	a, _ = engine.Apply(a, invoiceBatch(day(7), 300), rules, StrategyMax)

	entry, _ := a.EntryFor(day(7))
	assert.True(t, entry.PaidAmount.Equal(domain.MoneyFromInt(560)))
}

func TestApplySmartSingleLineReplaces(t *testing.T) {
	engine := testEngine()
	rules := testRules()

	a, _ := engine.Apply(testAnalysis(t), invoiceBatch(day(7), 500), rules, StrategySmart)
	a, _ = engine.Apply(a, invoiceBatch(day(7), 560), rules, StrategySmart)

	entry, _ := a.EntryFor(day(7))
	assert.True(t, entry.PaidAmount.Equal(domain.MoneyFromInt(560)))
}

func TestApplySmartMultiLineAdds(t *testing.T) {
	engine := testEngine()
	rules := testRules()

	a, _ := engine.Apply(testAnalysis(t), invoiceBatch(day(7), 300), rules, StrategySmart)
	a, _ = engine.Apply(a, invoiceBatch(day(7), 100, 160), rules, StrategySmart)

	entry, _ := a.EntryFor(day(7))
	assert.True(t, entry.PaidAmount.Equal(domain.MoneyFromInt(560)))
}

func TestApplyInvoiceOnlyDateHasZeroExpected(t *testing.T) {
	a, warnings := testEngine().Apply(testAnalysis(t), invoiceBatch(day(7), 560), testRules(), StrategySmart)
	require.Empty(t, warnings)

	entry, ok := a.EntryFor(day(7))
	require.True(t, ok)
	assert.True(t, entry.ExpectedTotal.IsZero())
	assert.True(t, entry.Difference.Equal(domain.MoneyFromInt(560)))
	assert.Equal(t, domain.StatusOverpaid, entry.Status)
}

func TestApplySkipsOutOfPeriodDates(t *testing.T) {
	batch := extraction.Batch{
		Runsheet: map[time.Time]extraction.RunsheetDay{
			time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC): {Consignments: 2},
			day(7): {Consignments: 5},
		},
		Invoice: map[time.Time][]domain.Money{
			time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC): {domain.MoneyFromInt(100)},
		},
	}

	a, warnings := testEngine().Apply(testAnalysis(t), batch, testRules(), StrategySmart)
	assert.Len(t, warnings, 2)
	assert.Len(t, a.Entries(), 1)
}

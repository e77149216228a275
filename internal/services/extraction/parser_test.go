package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consignment-reconciliation-backend/internal/domain"
)

func TestParseRunsheetCountsItems(t *testing.T) {
	text := `2025-01-06
- Parcel to Hightown
- Parcel to Lowfield
* Depot return

07/01/2025
1. Morning round
2) Afternoon round
`
	days, warnings := ParseRunsheet(text)
	require.Empty(t, warnings)
	require.Len(t, days, 2)

	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	tue := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, days[mon].Consignments)
	assert.Equal(t, 2, days[tue].Consignments)
}

func TestParseRunsheetExplicitCountWins(t *testing.T) {
	text := `2025-01-06
- item one
- item two
Consignments: 9
Pickups: 2
`
	days, warnings := ParseRunsheet(text)
	require.Empty(t, warnings)

	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 9, days[mon].Consignments)
	assert.Equal(t, 2, days[mon].Pickups)
}

func TestParseRunsheetRepeatedDateSectionsAccumulate(t *testing.T) {
	text := `2025-01-06
- one
2025-01-07
- other day
2025-01-06
- two
`
	days, _ := ParseRunsheet(text)

	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, days[mon].Consignments)
}

func TestParseRunsheetNegativeCountIsWarning(t *testing.T) {
	text := `2025-01-06
Consignments: -3
- item one
`
	days, warnings := ParseRunsheet(text)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "invalid consignment count")

	// The bad explicit count is dropped; the item line still counts.
	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, days[mon].Consignments)
}

func TestParseRunsheetIgnoresLinesBeforeFirstDate(t *testing.T) {
	text := `- stray item with no date
2025-01-06
- counted
`
	days, warnings := ParseRunsheet(text)
	require.Empty(t, warnings)
	require.Len(t, days, 1)
}

func TestParseInvoice(t *testing.T) {
	text := `2025-01-06
- Delivery payment £450.00
- Fuel allowance 25.50

08-01-2025
1. Weekly payment $1,200
`
	lines, warnings := ParseInvoice(text)
	require.Empty(t, warnings)
	require.Len(t, lines, 3)

	mon := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	wed := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, mon, lines[0].Date)
	assert.True(t, lines[0].Amount.Equal(mustMoney(t, "450.00")))
	assert.True(t, lines[1].Amount.Equal(mustMoney(t, "25.50")))
	assert.Equal(t, wed, lines[2].Date)
	assert.True(t, lines[2].Amount.Equal(mustMoney(t, "1200")))
}

func TestParseInvoiceNegativeAmountIsWarning(t *testing.T) {
	text := `2025-01-06
- Chargeback -120.00
- Delivery payment 450.00
`
	lines, warnings := ParseInvoice(text)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "negative amount")
	require.Len(t, lines, 1)
	assert.True(t, lines[0].Amount.Equal(mustMoney(t, "450.00")))
}

func TestParseInvoiceLineWithoutAmountIsWarning(t *testing.T) {
	text := `2025-01-06
- Delivery payment pending
`
	lines, warnings := ParseInvoice(text)
	assert.Empty(t, lines)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no amount")
}

func mustMoney(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

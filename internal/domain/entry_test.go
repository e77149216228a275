package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEntryTuesdayExample(t *testing.T) {
	// weekdayRate=100, saturdayRate=120, unloading=30, attendance=25, early=50.
	rules := testRules()
	tuesday := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Tuesday, tuesday.Weekday())

	count, err := NewConsignmentCount(5)
	require.NoError(t, err)

	e := BuildEntry(tuesday, count, MoneyFromInt(560), 0, rules)

	assert.True(t, e.BasePayment.Equal(MoneyFromInt(500)), "base payment")
	assert.True(t, e.TotalBonus.Equal(MoneyFromInt(105)), "total bonus")
	assert.True(t, e.ExpectedTotal.Equal(MoneyFromInt(605)), "expected total")
	assert.True(t, e.Difference.Equal(MoneyFromInt(-45)), "difference is paid minus expected")
	assert.Equal(t, StatusUnderpaid, e.Status)
}

func TestBuildEntrySaturday(t *testing.T) {
	rules := testRules()
	saturday := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())

	e := BuildEntry(saturday, 3, Zero(), 0, rules)

	assert.True(t, e.Rate.Equal(MoneyFromInt(120)))
	assert.True(t, e.BasePayment.Equal(MoneyFromInt(360)))
	assert.True(t, e.UnloadingBonus.Equal(MoneyFromInt(30)))
	assert.True(t, e.AttendanceBonus.IsZero())
	assert.True(t, e.EarlyBonus.IsZero())
}

func TestBuildEntrySunday(t *testing.T) {
	rules := testRules()
	sunday := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	e := BuildEntry(sunday, 2, Zero(), 0, rules)

	assert.True(t, e.TotalBonus.IsZero())
	assert.True(t, e.ExpectedTotal.Equal(MoneyFromInt(200)))
}

func TestBuildEntryPickups(t *testing.T) {
	rules := testRules()
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	e := BuildEntry(monday, 4, MoneyFromInt(505), 3, rules)

	// base 400 + bonuses (attendance 25 + early 50) + pickups 3x10 = 505
	assert.True(t, e.PickupTotal.Equal(MoneyFromInt(30)))
	assert.True(t, e.ExpectedTotal.Equal(MoneyFromInt(505)))
	assert.True(t, e.Difference.IsZero())
	assert.Equal(t, StatusBalanced, e.Status)
}

func TestBuildEntryNoConsignmentsEarnsNothing(t *testing.T) {
	rules := testRules()
	tuesday := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

	e := BuildEntry(tuesday, 0, MoneyFromInt(560), 0, rules)

	assert.True(t, e.BasePayment.IsZero())
	assert.True(t, e.TotalBonus.IsZero())
	assert.True(t, e.ExpectedTotal.IsZero())
	assert.True(t, e.Difference.Equal(MoneyFromInt(560)))
	assert.Equal(t, StatusOverpaid, e.Status)
}

func TestEntryIdentities(t *testing.T) {
	rules := testRules()
	for day := 6; day <= 12; day++ {
		date := time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
		e := BuildEntry(date, 7, MoneyFromInt(700), 2, rules)

		assert.True(t, e.ExpectedTotal.Equal(e.BasePayment.Add(e.TotalBonus).Add(e.PickupTotal)), date.Weekday().String())
		assert.True(t, e.Difference.Equal(e.PaidAmount.Sub(e.ExpectedTotal)), date.Weekday().String())
	}
}

func TestEntryStatusFollowsDifferenceSign(t *testing.T) {
	rules := testRules()
	tuesday := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

	e := BuildEntry(tuesday, 5, MoneyFromInt(605), 0, rules)
	assert.Equal(t, StatusBalanced, e.Status)

	assert.Equal(t, StatusOverpaid, e.WithPaidAmount(MoneyFromInt(700)).Status)
	assert.Equal(t, StatusUnderpaid, e.WithPaidAmount(MoneyFromInt(600)).Status)
}

func TestWithPaidAmountRecomputes(t *testing.T) {
	rules := testRules()
	tuesday := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

	e := BuildEntry(tuesday, 5, Zero(), 0, rules)
	updated := e.WithPaidAmount(MoneyFromInt(650))

	assert.True(t, updated.Difference.Equal(MoneyFromInt(45)))
	assert.Equal(t, StatusOverpaid, updated.Status)
	// Original is untouched.
	assert.True(t, e.PaidAmount.IsZero())
}

func TestNewConsignmentCountRejectsNegative(t *testing.T) {
	_, err := NewConsignmentCount(-1)
	assert.ErrorIs(t, err, ErrNegativeCount)
}

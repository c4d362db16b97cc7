package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildScheduleEvenSplit(t *testing.T) {
	amount, dates := BuildSchedule(decimal.NewFromInt(1200), 3, date(2025, time.March, 15))

	assert.True(t, amount.Equal(decimal.RequireFromString("400")), "amount = %s", amount)
	require.Len(t, dates, 3)
	assert.Equal(t, date(2025, time.March, 15), dates[0])
	assert.Equal(t, date(2025, time.April, 15), dates[1])
	assert.Equal(t, date(2025, time.May, 15), dates[2])
}

// A plan starting on the 31st must fall due on the last day of shorter
// months, not spill into the next month.
func TestBuildScheduleClampsShortMonths(t *testing.T) {
	_, dates := BuildSchedule(decimal.NewFromInt(900), 3, date(2025, time.January, 31))

	require.Len(t, dates, 3)
	assert.Equal(t, date(2025, time.January, 31), dates[0])
	assert.Equal(t, date(2025, time.February, 28), dates[1])
	// The clamp must not stick: March has 31 days again.
	assert.Equal(t, date(2025, time.March, 31), dates[2])
}

func TestBuildScheduleLeapFebruary(t *testing.T) {
	_, dates := BuildSchedule(decimal.NewFromInt(200), 2, date(2024, time.January, 31))

	require.Len(t, dates, 2)
	assert.Equal(t, date(2024, time.February, 29), dates[1])
}

// The residue of a non-terminating division stays unreconciled: three
// installments of 33.33 against a 100.00 plan under-collect by 0.01.
func TestBuildScheduleRoundingResidue(t *testing.T) {
	amount, dates := BuildSchedule(decimal.NewFromInt(100), 3, date(2025, time.June, 1))

	assert.True(t, amount.Equal(decimal.RequireFromString("33.33")), "amount = %s", amount)
	collected := amount.Mul(decimal.NewFromInt(int64(len(dates))))
	assert.True(t, decimal.NewFromInt(100).Sub(collected).Equal(decimal.RequireFromString("0.01")))
}

func TestBuildScheduleDefaultsCountToOne(t *testing.T) {
	amount, dates := BuildSchedule(decimal.NewFromInt(500), 0, date(2025, time.April, 10))

	require.Len(t, dates, 1)
	assert.True(t, amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, date(2025, time.April, 10), dates[0])
}

package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuildSchedule derives the per-installment amount and due dates for a plan.
// The amount is total/count rounded to 2 places; the rounding residue is not
// folded into any installment. The first date is the start date itself, each
// following one a calendar month later with the start's day-of-month kept.
// When the target month is shorter the day clamps to that month's last day,
// so a plan starting Jan 31 falls due Feb 28 (or 29), not Mar 2/3.
func BuildSchedule(total decimal.Decimal, count int, start time.Time) (decimal.Decimal, []time.Time) {
	if count < 1 {
		count = 1
	}

	amount := total.DivRound(decimal.NewFromInt(int64(count)), 2)

	dates := make([]time.Time, count)
	for i := 0; i < count; i++ {
		dates[i] = addMonthsClamped(start, i)
	}

	return amount, dates
}

// addMonthsClamped advances by whole calendar months, clamping the day to the
// target month's length. Offsets are always taken from the original date so a
// clamp in a short month does not stick for later months.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

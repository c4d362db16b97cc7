package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", model.ErrValidation)
	}
	return t, nil
}

// parseMonthWindow turns a strict YYYY-MM key into the first and last day of
// that month.
func parseMonthWindow(monthYear string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", monthYear)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("month_year must be YYYY-MM: %w", model.ErrValidation)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

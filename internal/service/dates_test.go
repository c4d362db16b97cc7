package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

func TestParseMonthWindow(t *testing.T) {
	first, last, err := parseMonthWindow("2025-02")
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.February, 1), first)
	assert.Equal(t, date(2025, time.February, 28), last)
}

func TestParseMonthWindowLeapYear(t *testing.T) {
	_, last, err := parseMonthWindow("2024-02")
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.February, 29), last)
}

func TestParseMonthWindowRejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", "2025", "2025-13", "2025-1", "02-2025", "2025-02-01"} {
		_, _, err := parseMonthWindow(key)
		require.Error(t, err, "key %q", key)
		assert.True(t, errors.Is(err, model.ErrValidation), "key %q", key)
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2025-08-28")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.August, 28), got)

	_, err = parseDate("28.08.2025")
	assert.True(t, errors.Is(err, model.ErrValidation))
}

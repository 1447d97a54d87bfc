package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBRDateAcceptsISO(t *testing.T) {
	normalized, err := NormalizeBRDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "01/03/2024", normalized)

	normalized, err = NormalizeBRDate(" 01/03/2024 ")
	require.NoError(t, err)
	assert.Equal(t, "01/03/2024", normalized)

	_, err = NormalizeBRDate("03-01-2024")
	assert.Error(t, err)
}

func TestClockRangesOverlapIsStrict(t *testing.T) {
	eight := 8 * 60
	noon := 12 * 60
	half := 12*60 + 30
	four := 16 * 60

	// Touching at the boundary is not an overlap.
	assert.False(t, ClockRangesOverlap(eight, noon, noon, four))
	assert.True(t, ClockRangesOverlap(eight, half, noon, four))
	assert.True(t, ClockRangesOverlap(noon, four, eight, half))
}

func TestDateRangesOverlapIsInclusive(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	assert.True(t, DateRangesOverlap(day(1), day(10), day(10), day(20)))
	assert.False(t, DateRangesOverlap(day(1), day(9), day(10), day(20)))
}

func TestHasWeekdayBetween(t *testing.T) {
	// 04/03/2024 is a Monday.
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	assert.True(t, HasWeekdayBetween(monday, monday, 0))
	assert.False(t, HasWeekdayBetween(monday, monday.AddDate(0, 0, 3), 4))
	assert.True(t, HasWeekdayBetween(monday, monday.AddDate(0, 0, 4), 4))
	assert.False(t, HasWeekdayBetween(monday.AddDate(0, 0, 1), monday, 0))
}

func TestNormalizeWeekdaySetDropsSundaysAndDuplicates(t *testing.T) {
	assert.Equal(t, []string{"SEG", "SÁB"}, NormalizeWeekdaySet([]string{"seg", "SEG", "dom", "sab", "???"}))
	assert.Empty(t, NormalizeWeekdaySet([]string{"DOM"}))
}

func TestWeekdayToken(t *testing.T) {
	assert.Equal(t, "SEG", WeekdayToken(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "DOM", WeekdayToken(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)))
}

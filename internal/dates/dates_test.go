package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormats(t *testing.T) {
	for _, in := range []string{"05.01.2024", "2024-01-05", "05/01/2024", " 2024-01-05 "} {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, Date(2024, time.January, 5), got, in)
	}
	_, err := Parse("January 5th")
	assert.Error(t, err)
}

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.February, 29), got)
	_, err = ParseDay("29.02.2024")
	assert.Error(t, err)
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 5, InclusiveDays(Date(2024, 1, 1), Date(2024, 1, 5)))
	assert.Equal(t, 1, InclusiveDays(Date(2024, 1, 1), Date(2024, 1, 1)))
	assert.Equal(t, 1, InclusiveDays(Date(2024, 1, 5), Date(2024, 1, 1)))
}

func TestExclusiveEnd(t *testing.T) {
	assert.Equal(t, Date(2024, 1, 6), ExclusiveEnd(Date(2024, 1, 5)))
	assert.Equal(t, Date(2024, 3, 1), ExclusiveEnd(Date(2024, 2, 29)))
}

func TestWeekBounds(t *testing.T) {
	// 2024-01-03 is a Wednesday.
	assert.Equal(t, Date(2024, 1, 1), WeekStart(Date(2024, 1, 3)))
	assert.Equal(t, Date(2024, 1, 7), WeekEnd(Date(2024, 1, 3)))
	// Sundays belong to the week that started the previous Monday.
	assert.Equal(t, Date(2024, 1, 1), WeekStart(Date(2024, 1, 7)))
	assert.Equal(t, Date(2024, 1, 7), WeekEnd(Date(2024, 1, 7)))
	assert.Equal(t, Date(2024, 1, 8), WeekStart(Date(2024, 1, 8)))
}

func TestMonthStartAndWeekend(t *testing.T) {
	assert.Equal(t, Date(2024, 7, 1), MonthStart(Date(2024, 7, 19)))
	assert.True(t, IsWeekend(Date(2024, 1, 6)))
	assert.False(t, IsWeekend(Date(2024, 1, 5)))
}

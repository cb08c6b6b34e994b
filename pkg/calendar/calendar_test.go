package calendar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/timeaxis/pkg/calendar"
	"github.com/agentstation/timeaxis/pkg/errors"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"noleap", "NOLEAP", " 365_day ", "no_leap"} {
		c, err := calendar.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, calendar.NoLeap, c)
	}

	c, err := calendar.Lookup("360_day")
	assert.Equal(t, calendar.Unknown, c)
	assert.ErrorIs(t, err, errors.ErrUnsupportedCalendar)
}

func TestNoLeapTable(t *testing.T) {
	assert.Equal(t, 365, calendar.NoLeap.DaysInYear())
	assert.Equal(t, 28, calendar.NoLeap.DaysInMonth(2))
	assert.Equal(t, 31, calendar.NoLeap.DaysInMonth(12))
	assert.Equal(t, 31, calendar.NoLeap.DaysInMonth(13), "months wrap")
	assert.Equal(t, 31, calendar.NoLeap.DaysInMonth(0), "month 0 is December")
	assert.Equal(t, "noleap", calendar.NoLeap.String())
}

func TestDayNumber(t *testing.T) {
	c := calendar.NoLeap
	assert.Equal(t, 0, c.DayNumber(0, 1, 1))
	assert.Equal(t, 31, c.DayNumber(0, 2, 1))
	assert.Equal(t, 365, c.DayNumber(1, 1, 1))
	assert.Equal(t, 2000*365+59, c.DayNumber(2000, 3, 1))
}

func TestFrequency(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		f := calendar.Fixed(0.25)
		assert.False(t, f.IsMonthly())
		assert.Equal(t, 0.25, f.Interval(2))
		assert.True(t, f.Matches(0.25000000001, 7))
		assert.False(t, f.Matches(0.5, 7))
		assert.Equal(t, "fixed(0.25)", f.String())
	})

	t.Run("monthly", func(t *testing.T) {
		f := calendar.Monthly(calendar.NoLeap)
		assert.True(t, f.IsMonthly())
		assert.Equal(t, 28.0, f.Interval(2))
		assert.True(t, f.Matches(31, 1))
		assert.False(t, f.Matches(30, 1))
		assert.Equal(t, "monthly(noleap)", f.String())
	})
}

func TestIsMonthlyTag(t *testing.T) {
	assert.True(t, calendar.IsMonthlyTag("month_1"))
	assert.True(t, calendar.IsMonthlyTag("MON"))
	assert.False(t, calendar.IsMonthlyTag("day_1"))
	assert.False(t, calendar.IsMonthlyTag(""))
}

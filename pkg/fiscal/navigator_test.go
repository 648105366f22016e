package fiscal

import (
	"testing"

	"github.com/overtrack/overtrack/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_Step(t *testing.T) {
	t.Run("should step back until the week-1 anchor and then refuse", func(t *testing.T) {
		// given
		c := calendarWith(t, date(2026, 1, 5))
		nav := NewNavigator(c, date(2026, 1, 15))
		require.Equal(t, "2026-W02", c.Resolve(date(2026, 1, 15), 0).Key())

		// when
		offset, moved := nav.Step(0, -1)

		// then
		require.True(t, moved)
		assert.Equal(t, -1, offset)
		assert.Equal(t, "2026-W01", c.Resolve(date(2026, 1, 15), offset).Key())

		// when
		offset, moved = nav.Step(offset, -1)

		// then
		assert.False(t, moved)
		assert.Equal(t, -1, offset)
	})

	t.Run("should leave the offset unchanged however often the boundary is hit", func(t *testing.T) {
		c := calendarWith(t, date(2026, 1, 5))
		nav := NewNavigator(c, date(2026, 2, 12))

		offset := 0
		for i := 0; i < 20; i++ {
			offset, _ = nav.Step(offset, -1)
		}

		assert.Equal(t, "2026-W01", c.Resolve(date(2026, 2, 12), offset).Key())
	})

	t.Run("should cross into the previous year when the anchor is January 1", func(t *testing.T) {
		// given
		c := NewCalendar()
		today := date(2026, 1, 15)
		nav := NewNavigator(c, today)

		// when
		offset, moved := nav.Step(-2, -1)

		// then
		require.True(t, moved)
		assert.Equal(t, -3, offset)
		assert.Equal(t, "2025-W52", c.Resolve(today, offset).Key())
	})

	t.Run("should move forward into the next year", func(t *testing.T) {
		c := NewCalendar()
		today := date(2026, 12, 24)
		nav := NewNavigator(c, today)

		offset, moved := nav.Step(1, 1)

		require.True(t, moved)
		assert.Equal(t, "2027-W01", c.Resolve(today, offset).Key())
	})
}

func TestNavigator_JumpToWeek(t *testing.T) {
	c := calendarWith(t, date(2026, 1, 5), date(2027, 1, 4))
	today := date(2026, 1, 15)
	nav := NewNavigator(c, today)

	t.Run("should jump to the requested week", func(t *testing.T) {
		offset, err := nav.JumpToWeek(WeekNumber{Year: 2027, Week: 10})

		require.NoError(t, err)
		assert.Equal(t, "2027-W10", c.Resolve(today, offset).Key())
	})

	t.Run("should jump backwards into an earlier year", func(t *testing.T) {
		offset, err := nav.JumpToWeek(WeekNumber{Year: 2024, Week: 30})

		require.NoError(t, err)
		assert.Equal(t, "2024-W30", c.Resolve(today, offset).Key())
	})

	t.Run("should reject weeks beyond the year", func(t *testing.T) {
		_, err := nav.JumpToWeek(WeekNumber{Year: 2026, Week: 53})

		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("should reject week zero", func(t *testing.T) {
		_, err := nav.JumpToWeek(WeekNumber{Year: 2026, Week: 0})

		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestNavigator_JumpToYear(t *testing.T) {
	c := calendarWith(t, date(2027, 1, 4))
	today := date(2026, 6, 10)
	nav := NewNavigator(c, today)

	offset, err := nav.JumpToYear(2027)

	require.NoError(t, err)
	week := c.Resolve(today, offset)
	assert.Equal(t, "2027-W01", week.Key())
	assert.Equal(t, date(2027, 1, 4), week.Start)

	_, err = nav.JumpToYear(0)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, []int{2024, 2025, 2026, 2027, 2028, 2029}, nav.JumpYears())
}

func TestNavigator_JumpToYear_farYears(t *testing.T) {
	tests := []struct {
		year     int
		expected string
	}{
		{year: 1, expected: "0001-W01"},
		{year: 2400, expected: "2400-W01"},
		{year: 9999, expected: "9999-W01"},
	}
	today := date(2026, 10, 18)
	c := NewCalendar()
	nav := NewNavigator(c, today)

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			// when
			offset, err := nav.JumpToYear(tt.year)

			// then
			require.NoError(t, err)
			week := c.Resolve(today, offset)
			assert.Equal(t, tt.expected, week.Key())
			assert.Equal(t, date(tt.year, 1, 1), week.Start)
		})
	}
}

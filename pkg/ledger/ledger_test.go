package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/internal/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hours(values ...int64) Hours {
	var h Hours
	for i := range h {
		h[i] = decimal.Zero
	}
	for i, v := range values {
		h[i] = decimal.NewFromInt(v)
	}
	return h
}

var johnDoe = Attribution{ManagerName: "Damian Off", SupervisorName: "Rick Adamo", EmployeeName: "John Doe"}

func TestCost(t *testing.T) {
	t.Run("should apply the overtime multiplier", func(t *testing.T) {
		cost := Cost(hours(8, 8, 8, 8, 8, 0, 0), decimal.NewFromInt(55))

		assert.Equal(t, "3300", cost.String())
	})

	t.Run("should keep fractional hours exact", func(t *testing.T) {
		h := hours()
		h[3] = decimal.RequireFromString("2.5")

		cost := Cost(h, decimal.RequireFromString("48.10"))

		assert.Equal(t, "180.375", cost.String())
	})
}

func TestHours_Validate(t *testing.T) {
	assert.ErrorIs(t, hours().Validate(), errs.ErrValidation)
	assert.ErrorIs(t, hours(-1, 2).Validate(), errs.ErrValidation)
	assert.ErrorIs(t, hours(25).Validate(), errs.ErrValidation)
	assert.NoError(t, hours(0, 0, 0, 0, 0, 0, 24).Validate())
}

func TestLedger_Add(t *testing.T) {
	t.Run("should add an entry with a frozen cost and default metadata", func(t *testing.T) {
		// given
		l := New()

		// when
		entry, err := l.Add("2026-W03", johnDoe, hours(8, 8, 8, 8, 8), Metadata{Program: " Ops "}, decimal.NewFromInt(55))

		// then
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, "3300", entry.Cost.String())
		assert.Equal(t, Metadata{Program: "Ops", Location: "N/A", Reason: "N/A"}, entry.Metadata)
		assert.Equal(t, 1, l.Len())
	})

	t.Run("should reject an entry without hours", func(t *testing.T) {
		l := New()

		_, err := l.Add("2026-W03", johnDoe, hours(), Metadata{}, decimal.NewFromInt(55))

		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("should reject malformed week keys and missing employees", func(t *testing.T) {
		l := New()

		_, err := l.Add("2026-03", johnDoe, hours(1), Metadata{}, decimal.NewFromInt(55))
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = l.Add("2026-W03", Attribution{ManagerName: "A", SupervisorName: "B"}, hours(1), Metadata{}, decimal.NewFromInt(55))
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestLedger_Update(t *testing.T) {
	t.Run("should recompute the cost with the new rate and keep the week", func(t *testing.T) {
		// given
		l := New()
		entry, err := l.Add("2026-W03", johnDoe, hours(8), Metadata{}, decimal.NewFromInt(55))
		require.NoError(t, err)

		// when
		updated, err := l.Update(entry.ID, Change{Attribution: johnDoe, Hours: hours(4), Metadata: Metadata{Reason: "Audit"}}, decimal.NewFromInt(48))

		// then
		require.NoError(t, err)
		assert.Equal(t, "2026-W03", updated.WeekKey)
		assert.Equal(t, "288", updated.Cost.String())
		assert.Equal(t, "Audit", updated.Metadata.Reason)
		stored, err := l.Get(entry.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("should leave the entry untouched on invalid hours", func(t *testing.T) {
		l := New()
		entry, err := l.Add("2026-W03", johnDoe, hours(8), Metadata{}, decimal.NewFromInt(55))
		require.NoError(t, err)

		_, err = l.Update(entry.ID, Change{Attribution: johnDoe, Hours: hours()}, decimal.NewFromInt(48))

		assert.ErrorIs(t, err, errs.ErrValidation)
		stored, _ := l.Get(entry.ID)
		assert.Equal(t, entry, stored)
	})

	t.Run("should report unknown entries", func(t *testing.T) {
		_, err := New().Update(uuid.New(), Change{Attribution: johnDoe, Hours: hours(1)}, decimal.NewFromInt(1))

		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestLedger_DeleteAndAt(t *testing.T) {
	l := New()
	first, err := l.Add("2026-W03", johnDoe, hours(1), Metadata{}, decimal.NewFromInt(55))
	require.NoError(t, err)
	second, err := l.Add("2026-W04", johnDoe, hours(2), Metadata{}, decimal.NewFromInt(55))
	require.NoError(t, err)

	at, err := l.At(1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, at.ID)

	require.NoError(t, l.Delete(first.ID))

	at, err = l.At(0)
	require.NoError(t, err)
	assert.Equal(t, second.ID, at.ID)
	_, err = l.At(1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, l.Delete(first.ID), errs.ErrNotFound)
}

func TestLedger_Sums(t *testing.T) {
	// given
	l := New()
	rate := decimal.NewFromInt(10)
	_, err := l.Add("2026-W03", johnDoe, hours(1, 2), Metadata{}, rate)
	require.NoError(t, err)
	_, err = l.Add("2026-W03", johnDoe, hours(0, 3, 4), Metadata{}, rate)
	require.NoError(t, err)
	_, err = l.Add("2026-W30", johnDoe, hours(10), Metadata{}, rate)
	require.NoError(t, err)
	_, err = l.Add("2025-W03", johnDoe, hours(10), Metadata{}, rate)
	require.NoError(t, err)

	t.Run("should sum a week by exact key", func(t *testing.T) {
		totals := l.SumWeek("2026-W03")

		assert.Equal(t, "1", totals.PerDay[0].String())
		assert.Equal(t, "5", totals.PerDay[1].String())
		assert.Equal(t, "4", totals.PerDay[2].String())
		assert.Equal(t, "10", totals.Hours.String())
		assert.Equal(t, "150", totals.Cost.String())
		assert.Len(t, l.ForWeek("2026-W03"), 2)
	})

	t.Run("should sum a year by key prefix", func(t *testing.T) {
		assert.Equal(t, "300", l.SumYear(2026).String())
		assert.Equal(t, "150", l.SumYear(2025).String())
		assert.True(t, l.SumYear(2024).IsZero())
	})

	t.Run("should give zero totals for an empty week", func(t *testing.T) {
		totals := l.SumWeek("2026-W09")

		assert.True(t, totals.Cost.IsZero())
		assert.True(t, totals.PerDay.Total().IsZero())
	})
}

func TestLedger_Clone(t *testing.T) {
	l := New()
	_, err := l.Add("2026-W03", johnDoe, hours(1), Metadata{}, decimal.NewFromInt(55))
	require.NoError(t, err)

	clone := l.Clone()
	_, err = clone.Add("2026-W03", johnDoe, hours(1), Metadata{}, decimal.NewFromInt(55))
	require.NoError(t, err)

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, clone.Len())
}

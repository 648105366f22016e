package budget

import (
	"testing"

	"github.com/overtrack/overtrack/internal/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamicWeeklyTarget(t *testing.T) {
	tests := []struct {
		name   string
		week   int
		annual string
		spent  string
		want   string
	}{
		{
			name:   "divides the remainder over the weeks left",
			week:   10,
			annual: "1000000",
			spent:  "200000",
			want:   decimal.NewFromInt(800000).Div(decimal.NewFromInt(43)).String(),
		},
		{
			name:   "uses the whole budget in week 1",
			week:   1,
			annual: "520000",
			spent:  "0",
			want:   "10000",
		},
		{
			name:   "never divides by less than one week",
			week:   53,
			annual: "1000",
			spent:  "400",
			want:   "600",
		},
		{
			name:   "keeps dividing by one past week 53",
			week:   60,
			annual: "1000",
			spent:  "100",
			want:   "900",
		},
		{
			name:   "floors an overspent year at zero",
			week:   20,
			annual: "1000",
			spent:  "5000",
			want:   "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DynamicWeeklyTarget(tt.week, decimal.RequireFromString(tt.annual), decimal.RequireFromString(tt.spent))

			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestComputePacing(t *testing.T) {
	// given
	annual := decimal.NewFromInt(530000)

	// when
	pacing := ComputePacing(3, annual, decimal.NewFromInt(30000), decimal.NewFromInt(12000))

	// then
	assert.Equal(t, "10000", pacing.WeeklyTarget.String())
	assert.Equal(t, "500000", pacing.Remaining.String())
	assert.Equal(t, "-2000", pacing.Variance.String())
	assert.True(t, pacing.OverTarget())
}

func TestTable(t *testing.T) {
	t.Run("should store budgets per year", func(t *testing.T) {
		table := NewTable()

		require.NoError(t, table.Set(2027, decimal.NewFromInt(5)))
		require.NoError(t, table.Set(2026, DefaultAnnual))

		assert.Equal(t, []int{2026, 2027}, table.Years())
		assert.True(t, DefaultAnnual.Equal(table.Amount(2026)))
		assert.True(t, table.Amount(2030).IsZero())
	})

	t.Run("should reject negative budgets", func(t *testing.T) {
		table := NewTable()

		assert.ErrorIs(t, table.Set(2026, decimal.NewFromInt(-1)), errs.ErrValidation)
		assert.False(t, table.Has(2026))
	})

	t.Run("should remove a year only when present", func(t *testing.T) {
		table := NewTable()
		require.NoError(t, table.Set(2026, DefaultAnnual))

		require.NoError(t, table.Remove(2026))

		assert.ErrorIs(t, table.Remove(2026), errs.ErrNotFound)
	})

	t.Run("should clone independently", func(t *testing.T) {
		table := NewTable()
		clone := table.Clone()

		require.NoError(t, clone.Set(2026, DefaultAnnual))

		assert.False(t, table.Has(2026))
	})
}

package budget

import (
	"github.com/shopspring/decimal"
)

// MaxWeeksPerYear is the week count pacing divides the remaining budget over.
// It is fixed and does not follow the configured length of the year.
const MaxWeeksPerYear = 53

// DynamicWeeklyTarget spreads what is left of the annual budget over the weeks
// remaining after week. It never goes below zero.
func DynamicWeeklyTarget(week int, annual, spent decimal.Decimal) decimal.Decimal {
	remainingWeeks := max(1, MaxWeeksPerYear-week)
	target := annual.Sub(spent).Div(decimal.NewFromInt(int64(remainingWeeks)))
	if target.IsNegative() {
		return decimal.Zero
	}
	return target
}

// Pacing compares one week's spend against the year's budget.
type Pacing struct {
	Annual       decimal.Decimal
	SpentInYear  decimal.Decimal
	Remaining    decimal.Decimal
	WeeklyTarget decimal.Decimal
	WeekActual   decimal.Decimal
	// Variance is target minus actual; negative means the week overspent.
	Variance decimal.Decimal
}

func ComputePacing(week int, annual, spentInYear, weekActual decimal.Decimal) Pacing {
	target := DynamicWeeklyTarget(week, annual, spentInYear)
	return Pacing{
		Annual:       annual,
		SpentInYear:  spentInYear,
		Remaining:    annual.Sub(spentInYear),
		WeeklyTarget: target,
		WeekActual:   weekActual,
		Variance:     target.Sub(weekActual),
	}
}

// OverTarget tells whether the week spent more than its target.
func (p Pacing) OverTarget() bool {
	return p.WeekActual.GreaterThan(p.WeeklyTarget)
}

package budget

import (
	"maps"
	"slices"

	"github.com/overtrack/overtrack/internal/errs"
	"github.com/shopspring/decimal"
)

// DefaultAnnual is the budget given to a year that is added without an amount.
var DefaultAnnual = decimal.NewFromInt(1_000_000)

// Table holds the annual overtime budget of each year.
type Table struct {
	years map[int]decimal.Decimal
}

func NewTable() *Table {
	return &Table{years: make(map[int]decimal.Decimal)}
}

func (t *Table) Get(year int) (decimal.Decimal, bool) {
	amount, ok := t.years[year]
	return amount, ok
}

// Amount is the budget of year, zero when none is set.
func (t *Table) Amount(year int) decimal.Decimal {
	if amount, ok := t.years[year]; ok {
		return amount
	}
	return decimal.Zero
}

func (t *Table) Has(year int) bool {
	_, ok := t.years[year]
	return ok
}

func (t *Table) Set(year int, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.Validation("budget", "budget must not be negative, got %s", amount)
	}
	t.years[year] = amount
	return nil
}

func (t *Table) Remove(year int) error {
	if _, ok := t.years[year]; !ok {
		return errs.NotFound("no budget for %d", year)
	}
	delete(t.years, year)
	return nil
}

func (t *Table) Years() []int {
	return slices.Sorted(maps.Keys(t.years))
}

func (t *Table) All() map[int]decimal.Decimal {
	return maps.Clone(t.years)
}

func (t *Table) Clone() *Table {
	return &Table{years: maps.Clone(t.years)}
}

package rate

import (
	"slices"
	"strings"

	"github.com/overtrack/overtrack/internal/errs"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// fallbackHourly is only used by an empty table, which a loaded state never has.
var fallbackHourly = decimal.NewFromInt(55)

type Rate struct {
	Location string
	Hourly   decimal.Decimal
}

// Table maps location labels to hourly rates in declaration order.
// The first declared rate is the fallback for unknown locations.
type Table struct {
	rates []Rate
}

// DefaultTable is the table a new tracker starts with.
func DefaultTable() *Table {
	return &Table{rates: []Rate{
		{Location: "US", Hourly: decimal.NewFromInt(55)},
		{Location: "Mexico", Hourly: decimal.NewFromInt(48)},
	}}
}

// NewTable builds a table from rates in order. It needs at least one rate.
func NewTable(rates ...Rate) (*Table, error) {
	if len(rates) == 0 {
		return nil, errs.Validation("rates", "at least one rate is required")
	}
	t := &Table{}
	for _, r := range rates {
		if err := t.Add(r.Location, r.Hourly); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) index(location string) int {
	return slices.IndexFunc(t.rates, func(r Rate) bool { return r.Location == location })
}

func (t *Table) Lookup(location string) (decimal.Decimal, bool) {
	i := t.index(strings.TrimSpace(location))
	if i < 0 {
		return decimal.Decimal{}, false
	}
	return t.rates[i].Hourly, true
}

// Resolve returns the rate of location, or the first declared rate when the
// location is unknown. Resolution never fails so data entry is never blocked.
func (t *Table) Resolve(location string) decimal.Decimal {
	if hourly, ok := t.Lookup(location); ok {
		return hourly
	}
	first := t.First()
	log.Warnf("rate location %q not found, falling back to %s (%s)", location, first.Location, first.Hourly)
	return first.Hourly
}

func (t *Table) First() Rate {
	if len(t.rates) == 0 {
		return Rate{Location: "US", Hourly: fallbackHourly}
	}
	return t.rates[0]
}

func (t *Table) Add(location string, hourly decimal.Decimal) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return errs.Validation("location", "location must not be blank")
	}
	if hourly.IsNegative() {
		return errs.Validation("hourly", "rate must not be negative, got %s", hourly)
	}
	if t.index(location) >= 0 {
		return errs.AlreadyExists("rate for %s already exists", location)
	}
	t.rates = append(t.rates, Rate{Location: location, Hourly: hourly})
	return nil
}

func (t *Table) Update(location string, hourly decimal.Decimal) error {
	if hourly.IsNegative() {
		return errs.Validation("hourly", "rate must not be negative, got %s", hourly)
	}
	i := t.index(strings.TrimSpace(location))
	if i < 0 {
		return errs.NotFound("rate for %s not found", location)
	}
	t.rates[i].Hourly = hourly
	return nil
}

// Delete removes a location. The last remaining rate cannot be deleted.
func (t *Table) Delete(location string) error {
	i := t.index(strings.TrimSpace(location))
	if i < 0 {
		return errs.NotFound("rate for %s not found", location)
	}
	if len(t.rates) == 1 {
		return errs.InvalidOperation("at least one rate must be kept")
	}
	t.rates = slices.Delete(t.rates, i, i+1)
	return nil
}

func (t *Table) All() []Rate {
	return slices.Clone(t.rates)
}

func (t *Table) Locations() []string {
	locations := make([]string, 0, len(t.rates))
	for _, r := range t.rates {
		locations = append(locations, r.Location)
	}
	return locations
}

func (t *Table) Len() int {
	return len(t.rates)
}

func (t *Table) Clone() *Table {
	return &Table{rates: slices.Clone(t.rates)}
}

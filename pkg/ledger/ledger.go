package ledger

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/internal/errs"
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/shopspring/decimal"
)

// Ledger is the ordered list of overtime entries. Order is insertion order.
type Ledger struct {
	entries []Entry
}

func New(entries ...Entry) *Ledger {
	return &Ledger{entries: slices.Clone(entries)}
}

// Change replaces the editable fields of an entry. The week key is kept.
type Change struct {
	Attribution Attribution
	Hours       Hours
	Metadata    Metadata
}

func validateWeekKey(weekKey string) error {
	if _, err := fiscal.ParseWeekNumber(weekKey); err != nil {
		return errs.Validation("weekKey", "%v", err)
	}
	return nil
}

func validateAttribution(a Attribution) error {
	if strings.TrimSpace(a.EmployeeName) == "" {
		return errs.Validation("employee", "employee is required")
	}
	return nil
}

// Add appends an entry. The cost is computed from rate now and frozen.
func (l *Ledger) Add(weekKey string, attribution Attribution, hours Hours, metadata Metadata, rate decimal.Decimal) (Entry, error) {
	if err := validateWeekKey(weekKey); err != nil {
		return Entry{}, err
	}
	if err := validateAttribution(attribution); err != nil {
		return Entry{}, err
	}
	if err := hours.Validate(); err != nil {
		return Entry{}, err
	}
	entry := Entry{
		ID:          uuid.New(),
		WeekKey:     weekKey,
		Attribution: attribution,
		Metadata:    metadata.WithDefaults(),
		Hours:       hours,
		Cost:        Cost(hours, rate),
	}
	l.entries = append(l.entries, entry)
	return entry, nil
}

// Update rewrites attribution, hours and metadata of an entry and recomputes its cost
// with rate.
func (l *Ledger) Update(id uuid.UUID, change Change, rate decimal.Decimal) (Entry, error) {
	i := l.index(id)
	if i < 0 {
		return Entry{}, errs.NotFound("entry %s not found", id)
	}
	if err := validateAttribution(change.Attribution); err != nil {
		return Entry{}, err
	}
	if err := change.Hours.Validate(); err != nil {
		return Entry{}, err
	}
	entry := &l.entries[i]
	entry.Attribution = change.Attribution
	entry.Hours = change.Hours
	entry.Metadata = change.Metadata.WithDefaults()
	entry.Cost = Cost(change.Hours, rate)
	return *entry, nil
}

func (l *Ledger) Delete(id uuid.UUID) error {
	i := l.index(id)
	if i < 0 {
		return errs.NotFound("entry %s not found", id)
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return nil
}

func (l *Ledger) index(id uuid.UUID) int {
	return slices.IndexFunc(l.entries, func(e Entry) bool { return e.ID == id })
}

func (l *Ledger) Get(id uuid.UUID) (Entry, error) {
	i := l.index(id)
	if i < 0 {
		return Entry{}, errs.NotFound("entry %s not found", id)
	}
	return l.entries[i], nil
}

// At translates a position in the ledger into an entry.
func (l *Ledger) At(index int) (Entry, error) {
	if index < 0 || index >= len(l.entries) {
		return Entry{}, errs.NotFound("no entry at position %d", index)
	}
	return l.entries[index], nil
}

func (l *Ledger) Entries() []Entry {
	return slices.Clone(l.entries)
}

// ForWeek returns the entries of the week key in ledger order.
func (l *Ledger) ForWeek(weekKey string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.WeekKey == weekKey {
			out = append(out, e)
		}
	}
	return out
}

func (l *Ledger) SumWeek(weekKey string) WeekTotals {
	totals := WeekTotals{Hours: decimal.Zero, Cost: decimal.Zero}
	for i := range totals.PerDay {
		totals.PerDay[i] = decimal.Zero
	}
	for _, e := range l.entries {
		if e.WeekKey != weekKey {
			continue
		}
		for i, h := range e.Hours {
			totals.PerDay[i] = totals.PerDay[i].Add(h)
		}
		totals.Hours = totals.Hours.Add(e.Hours.Total())
		totals.Cost = totals.Cost.Add(e.Cost)
	}
	return totals
}

// SumYear adds up the cost of every entry whose week key belongs to year.
func (l *Ledger) SumYear(year int) decimal.Decimal {
	prefix := fiscal.YearPrefix(year)
	total := decimal.Zero
	for _, e := range l.entries {
		if strings.HasPrefix(e.WeekKey, prefix) {
			total = total.Add(e.Cost)
		}
	}
	return total
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) Clone() *Ledger {
	return New(l.entries...)
}

package ledger

import (
	"strings"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/internal/errs"
	"github.com/shopspring/decimal"
)

// OvertimeMultiplier is applied to every hour logged in the ledger.
var OvertimeMultiplier = decimal.RequireFromString("1.5")

var maxHoursPerDay = decimal.NewFromInt(24)

const (
	DefaultProgram = "Default"
	NotApplicable  = "N/A"
)

// Hours holds the hours of one week, Sunday first.
type Hours [7]decimal.Decimal

func (h Hours) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range h {
		total = total.Add(v)
	}
	return total
}

// Validate accepts hours between 0 and 24 per day, with at least one day above zero.
func (h Hours) Validate() error {
	for i, v := range h {
		if v.IsNegative() || v.GreaterThan(maxHoursPerDay) {
			return errs.Validation("hours", "hours for day %d must be between 0 and 24, got %s", i+1, v)
		}
	}
	if h.Total().IsZero() {
		return errs.Validation("hours", "enter hours for at least one day")
	}
	return nil
}

type Metadata struct {
	Program  string
	Location string
	Reason   string
}

// WithDefaults trims the fields and fills the blank ones.
func (m Metadata) WithDefaults() Metadata {
	m.Program = orDefault(m.Program, DefaultProgram)
	m.Location = orDefault(m.Location, NotApplicable)
	m.Reason = orDefault(m.Reason, NotApplicable)
	return m
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

// Attribution ties an entry to the org tree. Names are a snapshot taken when the entry
// was written and are not touched by later renames.
type Attribution struct {
	ManagerID      uuid.UUID
	ManagerName    string
	SupervisorID   uuid.UUID
	SupervisorName string
	EmployeeID     uuid.UUID
	EmployeeName   string
}

type Entry struct {
	ID          uuid.UUID
	WeekKey     string
	Attribution Attribution
	Metadata    Metadata
	Hours       Hours
	Cost        decimal.Decimal
}

// Cost is the overtime cost of hours at the given hourly rate.
func Cost(hours Hours, hourly decimal.Decimal) decimal.Decimal {
	return hours.Total().Mul(hourly).Mul(OvertimeMultiplier)
}

// WeekTotals sums the entries of one week.
type WeekTotals struct {
	PerDay Hours
	Hours  decimal.Decimal
	Cost   decimal.Decimal
}

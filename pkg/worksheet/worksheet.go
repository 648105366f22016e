// Package worksheet is the read side of the tracker: the view of one fiscal week with
// its budget pacing and the hours broken down by supervisor and employee.
package worksheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/overtrack/overtrack/pkg/budget"
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/ledger"
	"github.com/overtrack/overtrack/pkg/tracker"
	"github.com/shopspring/decimal"
)

// Line is one entry of a supervisor group. Position is its index in the full ledger.
type Line struct {
	Position int
	Entry    ledger.Entry
}

// Group collects the week's entries written against one supervisor.
// Detached groups come from entries whose supervisor is no longer in the org tree;
// they are labelled with the names recorded on the entries.
type Group struct {
	ManagerID      uuid.UUID
	ManagerName    string
	SupervisorID   uuid.UUID
	SupervisorName string
	Detached       bool
	PerDay         ledger.Hours
	Hours          decimal.Decimal
	Cost           decimal.Decimal
	Lines          []Line
}

type Worksheet struct {
	Week        fiscal.Week
	Offset      int
	WeeksInYear int
	Pacing      budget.Pacing
	HasBudget   bool
	Totals      ledger.WeekTotals
	Groups      []Group
	JumpYears   []int
	BudgetYears []int
}

// Build renders the worksheet of the active week of state.
func Build(state *tracker.State, today time.Time) Worksheet {
	return BuildAt(state, today, state.WeekOffset)
}

// BuildAt renders the worksheet of the week offset weeks away from today.
func BuildAt(state *tracker.State, today time.Time, offset int) Worksheet {
	week := state.Calendar.Resolve(today, offset)
	year := week.Number.Year
	totals := state.Ledger.SumWeek(week.Key())

	return Worksheet{
		Week:        week,
		Offset:      offset,
		WeeksInYear: state.Calendar.WeeksInYear(year),
		Pacing:      budget.ComputePacing(week.Number.Week, state.Budgets.Amount(year), state.Ledger.SumYear(year), totals.Cost),
		HasBudget:   state.Budgets.Has(year),
		Totals:      totals,
		Groups:      groups(state, week.Key()),
		JumpYears:   fiscal.NewNavigator(state.Calendar, today).JumpYears(),
		BudgetYears: state.Budgets.Years(),
	}
}

type groupKey struct {
	supervisorID   uuid.UUID
	managerName    string
	supervisorName string
}

// groups follows the order of the org tree, then appends detached groups in the order
// their first entry was written. Supervisors without entries in the week are left out.
func groups(state *tracker.State, weekKey string) []Group {
	lines := make([]Line, 0)
	for i, e := range state.Ledger.Entries() {
		if e.WeekKey == weekKey {
			lines = append(lines, Line{Position: i, Entry: e})
		}
	}
	if len(lines) == 0 {
		return []Group{}
	}

	out := make([]Group, 0)
	claimed := make([]bool, len(lines))
	for _, m := range state.Org.Managers() {
		for _, s := range m.Supervisors {
			g := newGroup(m.ID, m.Name, s.ID, s.Name, false)
			for i, l := range lines {
				if !claimed[i] && l.Entry.Attribution.SupervisorID == s.ID {
					claimed[i] = true
					g.add(l)
				}
			}
			if len(g.Lines) > 0 {
				out = append(out, g)
			}
		}
	}

	detached := make(map[groupKey]int)
	for i, l := range lines {
		if claimed[i] {
			continue
		}
		a := l.Entry.Attribution
		key := groupKey{supervisorID: a.SupervisorID, managerName: a.ManagerName, supervisorName: a.SupervisorName}
		idx, ok := detached[key]
		if !ok {
			idx = len(out)
			detached[key] = idx
			out = append(out, newGroup(a.ManagerID, a.ManagerName, a.SupervisorID, a.SupervisorName, true))
		}
		out[idx].add(l)
	}
	return out
}

func newGroup(managerID uuid.UUID, managerName string, supervisorID uuid.UUID, supervisorName string, detached bool) Group {
	g := Group{
		ManagerID:      managerID,
		ManagerName:    managerName,
		SupervisorID:   supervisorID,
		SupervisorName: supervisorName,
		Detached:       detached,
		Hours:          decimal.Zero,
		Cost:           decimal.Zero,
	}
	for i := range g.PerDay {
		g.PerDay[i] = decimal.Zero
	}
	return g
}

func (g *Group) add(l Line) {
	for i, h := range l.Entry.Hours {
		g.PerDay[i] = g.PerDay[i].Add(h)
	}
	g.Hours = g.Hours.Add(l.Entry.Hours.Total())
	g.Cost = g.Cost.Add(l.Entry.Cost)
	g.Lines = append(g.Lines, l)
}

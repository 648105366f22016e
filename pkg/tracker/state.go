package tracker

import (
	"time"

	"github.com/overtrack/overtrack/pkg/budget"
	"github.com/overtrack/overtrack/pkg/fiscal"
	"github.com/overtrack/overtrack/pkg/ledger"
	"github.com/overtrack/overtrack/pkg/org"
	"github.com/overtrack/overtrack/pkg/rate"
)

// State is everything the tracker persists, kept as one value.
type State struct {
	Calendar   *fiscal.Calendar
	Budgets    *budget.Table
	Rates      *rate.Table
	Org        *org.Hierarchy
	Ledger     *ledger.Ledger
	WeekOffset int
}

// DefaultState is the state of a tracker that was never saved: the current year with the
// default budget and a January 1 week-1 anchor, the default rates and the sample tree.
func DefaultState(year int) *State {
	s := emptyState()
	_ = s.Budgets.Set(year, budget.DefaultAnnual)
	_ = s.Calendar.SetWeekOneStart(year, time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	s.Org = org.DefaultHierarchy()
	return s
}

func emptyState() *State {
	return &State{
		Calendar: fiscal.NewCalendar(),
		Budgets:  budget.NewTable(),
		Rates:    rate.DefaultTable(),
		Org:      org.NewHierarchy(),
		Ledger:   ledger.New(),
	}
}

func (s *State) Clone() *State {
	return &State{
		Calendar:   s.Calendar.Clone(),
		Budgets:    s.Budgets.Clone(),
		Rates:      s.Rates.Clone(),
		Org:        s.Org.Clone(),
		Ledger:     s.Ledger.Clone(),
		WeekOffset: s.WeekOffset,
	}
}

// Week resolves the week the state's offset points at.
func (s *State) Week(today time.Time) fiscal.Week {
	return s.Calendar.Resolve(today, s.WeekOffset)
}

// Navigator moves the state's offset relative to today.
func (s *State) Navigator(today time.Time) fiscal.Navigator {
	return fiscal.NewNavigator(s.Calendar, today)
}

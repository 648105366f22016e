package fiscal

import (
	"time"

	"github.com/overtrack/overtrack/internal/errs"
)

// Navigator moves a week offset relative to a fixed "today".
type Navigator struct {
	calendar *Calendar
	today    time.Time
}

func NewNavigator(calendar *Calendar, today time.Time) Navigator {
	return Navigator{calendar: calendar, today: Date(today)}
}

// Step moves offset by direction weeks. The move is refused, and offset returned unchanged,
// when the target date lies before the week-1 start of its calendar year or when the
// resolved week starts after December 31 of its fiscal year.
func (n Navigator) Step(offset int, direction int) (int, bool) {
	next := offset + direction
	target := n.today.AddDate(0, 0, next*7)
	if target.Before(n.calendar.WeekOneStart(target.Year())) {
		return offset, false
	}
	week := n.calendar.WeekOf(target)
	if week.Start.After(yearEnd(week.Number.Year)) {
		return offset, false
	}
	return next, true
}

// JumpToWeek returns the offset of the given week. The week must be one of the year's
// numbered weeks.
func (n Navigator) JumpToWeek(target WeekNumber) (int, error) {
	if err := ValidateYear(target.Year); err != nil {
		return 0, err
	}
	weeks := n.calendar.WeeksInYear(target.Year)
	if target.Week < 1 || target.Week > weeks {
		return 0, errs.Validation("week", "week must be between 1 and %d for %d, got %d", weeks, target.Year, target.Week)
	}
	return n.calendar.OffsetForWeek(n.today, target), nil
}

// JumpToYear returns the offset of week 1 of year.
func (n Navigator) JumpToYear(year int) (int, error) {
	if err := ValidateYear(year); err != nil {
		return 0, err
	}
	return n.calendar.OffsetForWeek(n.today, WeekNumber{Year: year, Week: 1}), nil
}

// JumpYears lists the years offered by the jump selector: two back, three ahead.
func (n Navigator) JumpYears() []int {
	current := n.today.Year()
	years := make([]int, 0, 6)
	for y := current - 2; y <= current+3; y++ {
		years = append(years, y)
	}
	return years
}

// ValidateYear rejects years outside the four-digit range used by week keys.
func ValidateYear(year int) error {
	if year < 1 || year > 9999 {
		return errs.Validation("year", "year must be between 1 and 9999, got %d", year)
	}
	return nil
}

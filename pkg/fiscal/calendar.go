package fiscal

import (
	"maps"
	"slices"
	"time"

	"github.com/overtrack/overtrack/internal/errs"
)

const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Week is a resolved fiscal week. Start is the first of its seven days, End the last.
type Week struct {
	Number WeekNumber
	Start  time.Time
	End    time.Time
}

func (w Week) Key() string {
	return w.Number.String()
}

// Range is the short display form, e.g. "Jan 5 - Jan 11".
func (w Week) Range() string {
	return w.Start.Format("Jan 2") + " - " + w.End.Format("Jan 2")
}

// Days lists the seven dates of the week in order.
func (w Week) Days() [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

// Calendar holds the configured week-1 start date of each fiscal year.
// Years without a configured date start on January 1.
type Calendar struct {
	anchors map[int]time.Time
}

func NewCalendar() *Calendar {
	return &Calendar{anchors: make(map[int]time.Time)}
}

// Date truncates t to its calendar date at midnight UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

func yearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days between two midnights. time.Duration only spans about
// 292 years, so the difference is taken in seconds.
func daysBetween(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

func (c *Calendar) WeekOneStart(year int) time.Time {
	if anchor, ok := c.anchors[year]; ok {
		return anchor
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func (c *Calendar) IsConfigured(year int) bool {
	_, ok := c.anchors[year]
	return ok
}

// SetWeekOneStart configures the first day of week 1. The date must lie inside the year itself.
func (c *Calendar) SetWeekOneStart(year int, start time.Time) error {
	start = Date(start)
	if start.Year() != year {
		return errs.Validation("weekOneStart", "week 1 of %d must start within %d, got %s", year, year, start.Format(DateLayout))
	}
	c.anchors[year] = start
	return nil
}

// Anchors returns the explicitly configured week-1 start dates.
func (c *Calendar) Anchors() map[int]time.Time {
	return maps.Clone(c.anchors)
}

func (c *Calendar) Years() []int {
	return slices.Sorted(maps.Keys(c.anchors))
}

func (c *Calendar) Clone() *Calendar {
	return &Calendar{anchors: maps.Clone(c.anchors)}
}

// WeekOf resolves the fiscal week containing date.
//
// A date before its own year's anchor belongs to the trailing week of the previous
// fiscal year. Anchors always lie inside their calendar year, so the previous year's
// anchor is never after the date and one step back is enough.
func (c *Calendar) WeekOf(date time.Time) Week {
	date = Date(date)
	year := date.Year()
	anchor := c.WeekOneStart(year)
	days := daysBetween(anchor, date)
	if days < 0 {
		year--
		anchor = c.WeekOneStart(year)
		days = daysBetween(anchor, date)
	}
	number := days/7 + 1
	start := anchor.AddDate(0, 0, (number-1)*7)
	return Week{
		Number: WeekNumber{Year: year, Week: number},
		Start:  start,
		End:    start.AddDate(0, 0, 6),
	}
}

// Resolve returns the week that lies offset weeks away from today.
func (c *Calendar) Resolve(today time.Time, offset int) Week {
	return c.WeekOf(Date(today).AddDate(0, 0, offset*7))
}

// WeekStart is the first day of the given week, counted from the year's anchor.
func (c *Calendar) WeekStart(n WeekNumber) time.Time {
	return c.WeekOneStart(n.Year).AddDate(0, 0, (n.Week-1)*7)
}

// OffsetForWeek returns the offset whose target date falls inside week n.
// Resolving that offset gives n back for every week Resolve can produce.
func (c *Calendar) OffsetForWeek(today time.Time, n WeekNumber) int {
	diff := daysBetween(Date(today), c.WeekStart(n))
	offset := diff / 7
	if diff > 0 && diff%7 != 0 {
		offset++
	}
	return offset
}

// WeeksInYear counts the weeks that start on or before December 31 of year.
func (c *Calendar) WeeksInYear(year int) int {
	return daysBetween(c.WeekOneStart(year), yearEnd(year))/7 + 1
}

package fiscal

import (
	"fmt"
	"strconv"
	"strings"
)

// WeekNumber identifies a fiscal week within a fiscal year.
type WeekNumber struct {
	Week int
	Year int
}

// ParseWeekNumber converts a week key such as "2026-W03" to a WeekNumber.
func ParseWeekNumber(key string) (WeekNumber, error) {
	yearPart, weekPart, found := strings.Cut(key, "-")
	if !found || len(yearPart) != 4 || !strings.HasPrefix(weekPart, "W") || len(weekPart) < 3 {
		return WeekNumber{}, fmt.Errorf("invalid week key: %q", key)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return WeekNumber{}, fmt.Errorf("invalid year in week key %q: %w", key, err)
	}
	week, err := strconv.Atoi(weekPart[1:])
	if err != nil {
		return WeekNumber{}, fmt.Errorf("invalid week in week key %q: %w", key, err)
	}
	if week < 1 {
		return WeekNumber{}, fmt.Errorf("invalid week in week key %q: weeks start at 1", key)
	}
	return WeekNumber{Year: year, Week: week}, nil
}

// String returns the week key, e.g. "2026-W03". Weeks past 99 keep all their digits.
func (w WeekNumber) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// YearPrefix is the prefix shared by every week key of a fiscal year.
func YearPrefix(year int) string {
	return fmt.Sprintf("%04d-W", year)
}

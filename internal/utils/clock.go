package utils

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{FixedNow: now}
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// AddDays moves the mock clock by the given number of calendar days.
func (m *MockClock) AddDays(days int) {
	m.FixedNow = m.FixedNow.AddDate(0, 0, days)
}

// Today returns the clock's current calendar date as midnight UTC.
// The date is taken in the clock's own location, so "today" matches the wall calendar
// of the machine even though all date arithmetic afterwards happens in UTC.
func Today(c Clock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

package timeutil

import "time"

// Calendar resolves instants to calendar days in one fixed reference location.
// Every "day" in the tracker is the midnight instant produced by DayOf, so day
// boundaries stay consistent no matter where an event timestamp came from.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Location returns the reference location.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DayOf returns midnight of t's calendar day in the reference location.
func (c *Calendar) DayOf(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

// NextDay returns midnight of the day after the given day.
func (c *Calendar) NextDay(day time.Time) time.Time {
	return c.AddDays(day, 1)
}

// AddDays shifts a day boundary by n calendar days. AddDate is used instead of
// Add so DST transitions don't drift the boundary off midnight.
func (c *Calendar) AddDays(day time.Time, n int) time.Time {
	d := day.In(c.loc).AddDate(0, 0, n)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc)
}

// DaysBetween returns the number of calendar days from start to end,
// inclusive of both. Returns 0 when start is after end.
func (c *Calendar) DaysBetween(start, end time.Time) int {
	start = c.DayOf(start)
	end = c.DayOf(end)
	if start.After(end) {
		return 0
	}
	n := 0
	for d := start; !d.After(end); d = c.NextDay(d) {
		n++
	}
	return n
}

// SameDay reports whether two instants fall on the same calendar day.
func (c *Calendar) SameDay(a, b time.Time) bool {
	return c.DayOf(a).Equal(c.DayOf(b))
}

package services

import "time"

// BusinessDay is the half-open interval [Start, End) of one local calendar day.
type BusinessDay struct {
	Start time.Time
	End   time.Time
}

// BusinessDayOf returns the calendar day containing t in t's location.
// End is the next local midnight, so DST days are 23 or 25 hours long.
func BusinessDayOf(t time.Time) BusinessDay {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return BusinessDay{Start: start, End: start.AddDate(0, 0, 1)}
}

// Contains reports whether t falls inside the day.
func (b BusinessDay) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Key formats the day as YYYY-MM-DD. Used for lock keys and cache keys.
func (b BusinessDay) Key() string {
	return b.Start.Format(time.DateOnly)
}

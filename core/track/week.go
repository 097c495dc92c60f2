package track

import "time"

// WeekStart anchors every window. All window math runs in a single fixed
// location to keep day boundaries stable across DST transitions.
const WeekStart = time.Sunday

var loc = time.UTC

// Week is a 7-day display window anchored on WeekStart at midnight.
// The window covers days start..start+6; containment checks use the
// half-open interval [start, start+7d).
type Week struct {
	start time.Time
}

// StartOfWeek returns the window anchored on the most recent occurrence of
// WeekStart at-or-before t, with the time of day zeroed.
func StartOfWeek(t time.Time) Week {
	t = t.In(loc)
	days := int(t.Weekday()) - int(WeekStart)
	if days < 0 {
		days += 7
	}
	anchor := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -days)
	return Week{start: anchor}
}

func (w Week) Start() time.Time { return w.start }

func (w Week) Next() Week     { return Week{start: w.start.AddDate(0, 0, 7)} }
func (w Week) Previous() Week { return Week{start: w.start.AddDate(0, 0, -7)} }

// Range returns the first and last day covered by the window.
func (w Week) Range() (start, end time.Time) {
	return w.start, w.start.AddDate(0, 0, 6)
}

// Contains reports whether t falls inside the window.
func (w Week) Contains(t time.Time) bool {
	t = t.In(loc)
	return !t.Before(w.start) && t.Before(w.start.AddDate(0, 0, 7))
}

// Label returns a human-readable rendering of the window bounds, e.g. "Jan 5 to Jan 11".
func (w Week) Label() string {
	start, end := w.Range()
	return start.Format("Jan 2") + " to " + end.Format("Jan 2")
}

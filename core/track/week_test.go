package track

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want time.Time
	}{
		{name: "sunday midnight", t: date(2025, time.January, 5, 0, 0), want: date(2025, time.January, 5, 0, 0)},
		{name: "sunday evening", t: date(2025, time.January, 5, 23, 59), want: date(2025, time.January, 5, 0, 0)},
		{name: "wednesday", t: date(2025, time.January, 8, 12, 30), want: date(2025, time.January, 5, 0, 0)},
		{name: "saturday end of window", t: date(2025, time.January, 11, 23, 59), want: date(2025, time.January, 5, 0, 0)},
		{name: "next sunday new window", t: date(2025, time.January, 12, 0, 0), want: date(2025, time.January, 12, 0, 0)},
		{name: "year boundary", t: date(2025, time.January, 1, 9, 0), want: date(2024, time.December, 29, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfWeek(tt.t).Start(); !got.Equal(tt.want) {
				t.Errorf("StartOfWeek() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartOfWeek_idempotent(t *testing.T) {
	w := StartOfWeek(date(2025, time.January, 8, 12, 30))
	if again := StartOfWeek(w.Start()); !again.Start().Equal(w.Start()) {
		t.Errorf("StartOfWeek(anchor) = %v, want %v", again.Start(), w.Start())
	}
}

func TestWeek_paging(t *testing.T) {
	w := StartOfWeek(date(2025, time.January, 8, 12, 30))

	next := w.Next()
	if want := date(2025, time.January, 12, 0, 0); !next.Start().Equal(want) {
		t.Errorf("Next() = %v, want %v", next.Start(), want)
	}
	prev := w.Previous()
	if want := date(2024, time.December, 29, 0, 0); !prev.Start().Equal(want) {
		t.Errorf("Previous() = %v, want %v", prev.Start(), want)
	}

	// paging is its own inverse
	if got := w.Next().Previous(); !got.Start().Equal(w.Start()) {
		t.Errorf("Next().Previous() = %v, want %v", got.Start(), w.Start())
	}
	if got := w.Previous().Next(); !got.Start().Equal(w.Start()) {
		t.Errorf("Previous().Next() = %v, want %v", got.Start(), w.Start())
	}
}

func TestWeek_Contains(t *testing.T) {
	w := StartOfWeek(date(2025, time.January, 5, 0, 0))

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{name: "start boundary included", t: date(2025, time.January, 5, 0, 0), want: true},
		{name: "mid window", t: date(2025, time.January, 8, 15, 0), want: true},
		{name: "last instant included", t: date(2025, time.January, 11, 23, 59), want: true},
		{name: "end boundary excluded", t: date(2025, time.January, 12, 0, 0), want: false},
		{name: "before window", t: date(2025, time.January, 4, 23, 59), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestWeek_partition(t *testing.T) {
	// every instant belongs to exactly one of three consecutive windows
	w := StartOfWeek(date(2025, time.January, 5, 0, 0))
	windows := []Week{w.Previous(), w, w.Next()}

	for _, inst := range []time.Time{
		date(2025, time.January, 4, 23, 59),
		date(2025, time.January, 5, 0, 0),
		date(2025, time.January, 12, 0, 0),
	} {
		var n int
		for _, win := range windows {
			if win.Contains(inst) {
				n++
			}
		}
		if n != 1 {
			t.Errorf("instant %v contained in %d windows, want 1", inst, n)
		}
	}
}

func TestWeek_Label(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "mid month", t: date(2025, time.January, 8, 12, 0), want: "Jan 5 to Jan 11"},
		{name: "month boundary", t: date(2025, time.January, 29, 12, 0), want: "Jan 26 to Feb 1"},
		{name: "year boundary", t: date(2025, time.January, 1, 9, 0), want: "Dec 29 to Jan 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartOfWeek(tt.t).Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

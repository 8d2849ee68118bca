package week

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBoundsSaturdayToFriday(t *testing.T) {
	// 2026-01-14 is a Wednesday; its week runs Sat 2026-01-10 .. Fri 2026-01-16.
	start, end := Bounds(time.Date(2026, time.January, 14, 15, 30, 0, 0, time.UTC))

	if start.Weekday() != time.Saturday {
		t.Fatalf("expected start on Saturday, got %v", start.Weekday())
	}
	if !start.Equal(date(2026, time.January, 10)) {
		t.Fatalf("expected start 2026-01-10, got %v", start)
	}
	if end.Weekday() != time.Friday {
		t.Fatalf("expected end on Friday, got %v", end.Weekday())
	}
	wantEnd := time.Date(2026, time.January, 16, 23, 59, 59, 999999999, time.UTC)
	if !end.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, end)
	}
}

func TestBoundsOnSaturdayIsItsOwnStart(t *testing.T) {
	sat := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	start, _ := Bounds(sat)
	if !start.Equal(date(2026, time.January, 10)) {
		t.Fatalf("saturday should anchor its own week, got %v", start)
	}
}

func TestBoundsIdempotent(t *testing.T) {
	for _, d := range []time.Time{
		date(2026, time.January, 9),  // Friday, last day of week
		date(2026, time.January, 10), // Saturday, first day of week
		date(2026, time.February, 28),
		time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
	} {
		start, _ := Bounds(d)
		again, _ := Bounds(start)
		if !again.Equal(start) {
			t.Fatalf("bounds not idempotent for %v: %v != %v", d, again, start)
		}
	}
}

func TestBetween(t *testing.T) {
	base := date(2026, time.January, 10)
	cases := []struct {
		a, b time.Time
		want int
	}{
		{base, base, 0},
		{base, base.AddDate(0, 0, 6), 0},  // same week
		{base, base.AddDate(0, 0, 7), 1},  // next week
		{base, base.AddDate(0, 0, 28), 4}, // four weeks out
		{base.AddDate(0, 0, 28), base, 4}, // order independent
	}
	for _, tc := range cases {
		if got := Between(tc.a, tc.b); got != tc.want {
			t.Fatalf("Between(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNavigate(t *testing.T) {
	d := date(2026, time.January, 14)
	if got := Next(d); !got.Equal(date(2026, time.January, 21)) {
		t.Fatalf("Next = %v", got)
	}
	if got := Previous(d); !got.Equal(date(2026, time.January, 7)) {
		t.Fatalf("Previous = %v", got)
	}
	if got := Navigate(d, -2); !got.Equal(date(2025, time.December, 31)) {
		t.Fatalf("Navigate(-2) = %v", got)
	}
}

func TestSame(t *testing.T) {
	if !Same(date(2026, time.January, 10), date(2026, time.January, 16)) {
		t.Fatal("saturday and friday of one week should match")
	}
	if Same(date(2026, time.January, 16), date(2026, time.January, 17)) {
		t.Fatal("friday and the following saturday are different weeks")
	}
}

package shift

import (
	"testing"
	"time"
)

var patternStart = time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC) // Saturday

func TestResolveParityRotation(t *testing.T) {
	cases := []struct {
		offsetDays int
		want       Type
	}{
		{0, Morning},
		{7, Afternoon},
		{14, Morning},
		{21, Afternoon},
		{3, Morning}, // mid-week, still week zero
	}
	for _, tc := range cases {
		ref := patternStart.AddDate(0, 0, tc.offsetDays)
		if got := Resolve(ref, patternStart, nil); got != tc.want {
			t.Fatalf("Resolve(+%dd) = %s, want %s", tc.offsetDays, got, tc.want)
		}
	}
}

func TestResolveBeforePatternStart(t *testing.T) {
	ref := patternStart.AddDate(0, 0, -7)
	if got := Resolve(ref, patternStart, nil); got != Afternoon {
		t.Fatalf("one week before start should be afternoon, got %s", got)
	}
}

func TestResolveManualOverrideWins(t *testing.T) {
	override := Afternoon
	if got := Resolve(patternStart, patternStart, &override); got != Afternoon {
		t.Fatalf("override ignored, got %s", got)
	}
}

func TestResolveInvalidOverrideFallsBack(t *testing.T) {
	bad := Type("night")
	if got := Resolve(patternStart, patternStart, &bad); got != Morning {
		t.Fatalf("invalid override should fall back to rotation, got %s", got)
	}
}

func TestOpposite(t *testing.T) {
	if Opposite(Morning) != Afternoon || Opposite(Afternoon) != Morning {
		t.Fatal("opposite mapping broken")
	}
}

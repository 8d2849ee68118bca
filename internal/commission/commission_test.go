package commission

import (
	"math"
	"testing"
)

var tiers = []Tier{
	{Threshold: 100, Bonus: 10},
	{Threshold: 200, Bonus: 25},
	{Threshold: 300, Bonus: 50},
}

func TestCalculateBaseAndStreak(t *testing.T) {
	got := Calculate(120000, Params{BaseRate: 0.40, StreakRate: 0.05, StreakWeeks: 2})
	if got.Base != 48000 {
		t.Fatalf("base = %v, want 48000", got.Base)
	}
	if got.StreakBonus != 12000 {
		t.Fatalf("streak bonus = %v, want 12000", got.StreakBonus)
	}
	if got.Total != 60000 {
		t.Fatalf("total = %v, want 60000", got.Total)
	}
}

func TestCalculateStreakCapsAtFour(t *testing.T) {
	p := Params{BaseRate: 0.40, StreakRate: 0.05}
	for streak := 0; streak <= 10; streak++ {
		p.StreakWeeks = streak
		got := Calculate(100000, p)
		effective := streak
		if effective > 4 {
			effective = 4
		}
		want := 100000 * 0.05 * float64(effective)
		if got.StreakBonus != want {
			t.Fatalf("streak=%d bonus = %v, want %v", streak, got.StreakBonus, want)
		}
	}

	p.StreakWeeks = 4
	atFour := Calculate(100000, p)
	p.StreakWeeks = 7
	atSeven := Calculate(100000, p)
	if atFour.StreakBonus != atSeven.StreakBonus {
		t.Fatalf("streak 4 and 7 should pay the same: %v vs %v", atFour.StreakBonus, atSeven.StreakBonus)
	}
}

func TestCalculateDegradesGracefully(t *testing.T) {
	got := Calculate(-500, Params{BaseRate: 0.40, StreakRate: 0.05, StreakWeeks: 2})
	if got.Total != 0 {
		t.Fatalf("negative revenue should yield zero, got %v", got.Total)
	}

	got = Calculate(1000, Params{BaseRate: math.NaN(), StreakRate: -1, StreakWeeks: 3})
	if got.Total != 0 {
		t.Fatalf("malformed rates should degrade to zero, got %v", got.Total)
	}
}

func TestFixedBonusSingleTierOnly(t *testing.T) {
	if got := FixedBonus(250, tiers); got != 25 {
		t.Fatalf("revenue 250 should pay only the 200 tier: got %d, want 25", got)
	}
	if got := FixedBonus(99, tiers); got != 0 {
		t.Fatalf("below every tier should pay 0, got %d", got)
	}
	if got := FixedBonus(300, tiers); got != 50 {
		t.Fatalf("exact top threshold should pay 50, got %d", got)
	}
	if got := FixedBonus(250, nil); got != 0 {
		t.Fatalf("no tiers should pay 0, got %d", got)
	}
}

func TestFixedBonusUnsortedInput(t *testing.T) {
	shuffled := []Tier{{Threshold: 300, Bonus: 50}, {Threshold: 100, Bonus: 10}, {Threshold: 200, Bonus: 25}}
	if got := FixedBonus(250, shuffled); got != 25 {
		t.Fatalf("tier order must not matter: got %d, want 25", got)
	}
}

func TestNextTierAndRemaining(t *testing.T) {
	next := NextTier(250, tiers)
	if next == nil || next.Threshold != 300 {
		t.Fatalf("next tier after 250 should be 300, got %+v", next)
	}

	remaining, ok := RemainingToNext(250, tiers)
	if !ok || remaining != 50 {
		t.Fatalf("remaining = %d ok=%v, want 50 true", remaining, ok)
	}

	if next := NextTier(350, tiers); next != nil {
		t.Fatalf("all tiers cleared, expected nil, got %+v", next)
	}
	if _, ok := RemainingToNext(350, tiers); ok {
		t.Fatal("remaining should report no next tier at 350")
	}
}

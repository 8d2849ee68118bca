package commission

import (
	"math"
	"sort"
)

// MaxStreakWeeks caps the streak contribution: a ten-week run pays the
// same bonus rate as a four-week run.
const MaxStreakWeeks = 4

// Tier is a fixed weekly bonus unlocked by reaching a revenue threshold.
// Only the single highest tier cleared by the week pays out.
type Tier struct {
	Threshold int64 `json:"threshold"`
	Bonus     int64 `json:"bonus"`
}

// Params is the settings slice the calculator needs for one week.
type Params struct {
	BaseRate    float64
	StreakRate  float64
	StreakWeeks int
}

// Breakdown is the commission split for a week's revenue.
type Breakdown struct {
	Base        float64 `json:"base"`
	StreakBonus float64 `json:"streak_bonus"`
	Total       float64 `json:"total"`
}

// Calculate computes base commission plus the capped streak bonus.
// This is a display computation, not a ledger of record: malformed
// inputs (negative revenue, NaN rates) degrade to zero instead of
// erroring. Monotonic non-decreasing in revenue and streak.
func Calculate(revenue int64, p Params) Breakdown {
	if revenue < 0 {
		revenue = 0
	}
	streak := p.StreakWeeks
	if streak < 0 {
		streak = 0
	}
	if streak > MaxStreakWeeks {
		streak = MaxStreakWeeks
	}

	base := float64(revenue) * sanitizeRate(p.BaseRate)
	streakBonus := float64(revenue) * sanitizeRate(p.StreakRate) * float64(streak)

	return Breakdown{
		Base:        base,
		StreakBonus: streakBonus,
		Total:       base + streakBonus,
	}
}

// FixedBonus returns the bonus of the highest tier whose threshold does
// not exceed revenue, or 0 when no tier qualifies. Tiers never stack.
func FixedBonus(revenue int64, tiers []Tier) int64 {
	if len(tiers) == 0 {
		return 0
	}
	sorted := sortedTiers(tiers)
	for i := len(sorted) - 1; i >= 0; i-- {
		if revenue >= sorted[i].Threshold {
			return sorted[i].Bonus
		}
	}
	return 0
}

// NextTier returns the lowest tier strictly above revenue, or nil once
// every tier is cleared.
func NextTier(revenue int64, tiers []Tier) *Tier {
	for _, tier := range sortedTiers(tiers) {
		if revenue < tier.Threshold {
			t := tier
			return &t
		}
	}
	return nil
}

// RemainingToNext returns how much revenue is missing to unlock the next
// tier. ok is false once all tiers are cleared or none exist.
func RemainingToNext(revenue int64, tiers []Tier) (remaining int64, ok bool) {
	next := NextTier(revenue, tiers)
	if next == nil {
		return 0, false
	}
	return next.Threshold - revenue, true
}

func sortedTiers(tiers []Tier) []Tier {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})
	return sorted
}

func sanitizeRate(rate float64) float64 {
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return rate
}

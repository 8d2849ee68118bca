package domain

import (
	"context"
	"time"

	"github.com/estilistapro/estilista/internal/commission"
	"github.com/estilistapro/estilista/internal/shift"
)

type SummaryRequest struct {
	// Date picks the business week to summarize. Any day inside the
	// week works, including days in past or future weeks.
	Date time.Time
}

// Summary is the weekly dashboard view: earnings, commission and streak
// state for the business week containing the requested date.
type Summary struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`

	Revenue int64 `json:"revenue"`
	Tips    int64 `json:"tips"`
	Jobs    int   `json:"jobs"`

	WeeklyTarget      int64 `json:"weekly_target"`
	TargetMet         bool  `json:"target_met"`
	RemainingToTarget int64 `json:"remaining_to_target"`

	Commission  commission.Breakdown `json:"commission"`
	StreakWeeks int                  `json:"streak_weeks"`

	FixedBonus          int64            `json:"fixed_bonus"`
	NextTier            *commission.Tier `json:"next_tier,omitempty"`
	RemainingToNextTier int64            `json:"remaining_to_next_tier"`

	Shift shift.Type `json:"shift,omitempty"`

	// Pocket is commission plus fixed bonus plus tips.
	Pocket float64 `json:"pocket"`
}

type Service interface {
	WeekSummary(ctx context.Context, req SummaryRequest) (Summary, error)
}

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/estilistapro/estilista/internal/commission"
	"github.com/estilistapro/estilista/internal/shift"
)

const (
	ApplyToCurrentWeek = "current_week"
	ApplyToNextWeek    = "next_week"
)

// SetupRequest bootstraps the first open settings record.
type SetupRequest struct {
	WeeklyTarget         int64             `json:"weekly_target"`
	BaseCommissionRate   float64           `json:"base_commission_rate"`
	StreakBonusRate      float64           `json:"streak_bonus_rate"`
	StreakBonusThreshold int64             `json:"streak_bonus_threshold"`
	FixedBonusTiers      []commission.Tier `json:"fixed_bonus_tiers"`
	ShiftPatternStart    *time.Time        `json:"shift_pattern_start,omitempty"`
	CurrentShift         *shift.Type       `json:"current_shift,omitempty"`
}

// UpdateRequest edits settings either retroactively for the week in
// progress or by branching a new record effective next week.
type UpdateRequest struct {
	ApplyTo string `json:"apply_to"`
	Patch
}

type Service interface {
	// ResolveForWeek is the lenient resolve used for display: strict
	// interval match first, earliest record as fallback, then
	// ErrMissingSettings when the user has no history at all.
	ResolveForWeek(ctx context.Context, date time.Time) (Snapshot, error)
	// EnsureForWeek guarantees a covering record exists before a job
	// mutation touches the week.
	EnsureForWeek(ctx context.Context, date time.Time) (Snapshot, error)
	AmendCurrentWeek(ctx context.Context, patch Patch) (Snapshot, error)
	BranchNextWeek(ctx context.Context, patch Patch) (Snapshot, error)
	// MarkThresholdForWeek recomputes the week's revenue against the
	// resolved threshold and persists the flag.
	MarkThresholdForWeek(ctx context.Context, date time.Time) error
	// StreakLength counts consecutive threshold-met weeks walking
	// backward from date's week. Result is in [0, 4].
	StreakLength(ctx context.Context, date time.Time) (int, error)

	GetCurrent(ctx context.Context) (Snapshot, error)
	History(ctx context.Context) ([]Snapshot, error)
	Setup(ctx context.Context, req SetupRequest) (Snapshot, error)
	Update(ctx context.Context, req UpdateRequest) (Snapshot, error)
}

var (
	ErrInvalidUser        = errors.New("invalid_user")
	ErrMissingSettings    = errors.New("missing_settings")
	ErrAlreadyInitialized = errors.New("already_initialized")
	ErrInvalidTarget      = errors.New("invalid_target")
	ErrInvalidRate        = errors.New("invalid_rate")
	ErrInvalidThreshold   = errors.New("invalid_threshold")
	ErrInvalidTier        = errors.New("invalid_tier")
	ErrInvalidShift       = errors.New("invalid_shift")
	ErrInvalidApplyTo     = errors.New("invalid_apply_to")
)

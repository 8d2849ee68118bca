package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/estilistapro/estilista/internal/commission"
	"github.com/estilistapro/estilista/internal/shift"
	"gorm.io/datatypes"
)

// Snapshot is one versioned settings record. Validity is the half-open
// interval [EffectiveFrom, EffectiveTo); a nil EffectiveTo means the
// record is currently open. Per user the intervals never overlap and at
// most one record is open.
type Snapshot struct {
	ID                   snowflake.ID                         `gorm:"primaryKey" json:"id"`
	UserID               snowflake.ID                         `gorm:"not null;index" json:"user_id"`
	WeeklyTarget         int64                                `gorm:"not null" json:"weekly_target"`
	BaseCommissionRate   float64                              `gorm:"not null" json:"base_commission_rate"`
	StreakBonusRate      float64                              `gorm:"not null" json:"streak_bonus_rate"`
	StreakBonusThreshold int64                                `gorm:"not null" json:"streak_bonus_threshold"`
	FixedBonusTiers      datatypes.JSONSlice[commission.Tier] `gorm:"type:jsonb" json:"fixed_bonus_tiers"`
	WeekStartDay         int                                  `gorm:"not null;default:6" json:"week_start_day"`
	ShiftPatternStart    *time.Time                           `json:"shift_pattern_start,omitempty"`
	CurrentShift         *shift.Type                          `json:"current_shift,omitempty"`
	StreakThresholdMet   bool                                 `gorm:"not null" json:"streak_threshold_met"`
	EffectiveFrom        time.Time                            `gorm:"not null" json:"effective_from"`
	EffectiveTo          *time.Time                           `json:"effective_to,omitempty"`
	CreatedAt            time.Time                            `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time                            `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Snapshot) TableName() string {
	return "settings_history"
}

// Defaults returns the hardcoded first-ever snapshot values.
func Defaults() Snapshot {
	return Snapshot{
		WeeklyTarget:         150000,
		BaseCommissionRate:   0.40,
		StreakBonusRate:      0.05,
		StreakBonusThreshold: 0,
		FixedBonusTiers:      datatypes.JSONSlice[commission.Tier]{},
		WeekStartDay:         6,
	}
}

// Patch carries the fields a settings edit may change. Nil fields are
// inherited from the record being amended or copied.
type Patch struct {
	WeeklyTarget         *int64             `json:"weekly_target,omitempty"`
	BaseCommissionRate   *float64           `json:"base_commission_rate,omitempty"`
	StreakBonusRate      *float64           `json:"streak_bonus_rate,omitempty"`
	StreakBonusThreshold *int64             `json:"streak_bonus_threshold,omitempty"`
	FixedBonusTiers      *[]commission.Tier `json:"fixed_bonus_tiers,omitempty"`
	WeekStartDay         *int               `json:"week_start_day,omitempty"`
	ShiftPatternStart    *time.Time         `json:"shift_pattern_start,omitempty"`
	CurrentShift         *shift.Type        `json:"current_shift,omitempty"`
}

// Apply merges the patch over the snapshot.
func (p Patch) Apply(s *Snapshot) {
	if p.WeeklyTarget != nil {
		s.WeeklyTarget = *p.WeeklyTarget
	}
	if p.BaseCommissionRate != nil {
		s.BaseCommissionRate = *p.BaseCommissionRate
	}
	if p.StreakBonusRate != nil {
		s.StreakBonusRate = *p.StreakBonusRate
	}
	if p.StreakBonusThreshold != nil {
		s.StreakBonusThreshold = *p.StreakBonusThreshold
	}
	if p.FixedBonusTiers != nil {
		s.FixedBonusTiers = datatypes.NewJSONSlice(*p.FixedBonusTiers)
	}
	if p.WeekStartDay != nil {
		s.WeekStartDay = *p.WeekStartDay
	}
	if p.ShiftPatternStart != nil {
		s.ShiftPatternStart = p.ShiftPatternStart
	}
	if p.CurrentShift != nil {
		s.CurrentShift = p.CurrentShift
	}
}

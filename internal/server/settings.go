package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/estilistapro/estilista/internal/commission"
	settingsdomain "github.com/estilistapro/estilista/internal/settings/domain"
	"github.com/estilistapro/estilista/internal/shift"
)

type setupSettingsRequest struct {
	WeeklyTarget         int64             `json:"weekly_target"`
	BaseCommissionRate   float64           `json:"base_commission_rate"`
	StreakBonusRate      float64           `json:"streak_bonus_rate"`
	StreakBonusThreshold int64             `json:"streak_bonus_threshold"`
	FixedBonusTiers      []commission.Tier `json:"fixed_bonus_tiers"`
	ShiftPatternStart    string            `json:"shift_pattern_start"`
	CurrentShift         string            `json:"current_shift"`
}

func (s *Server) SetupSettings(c *gin.Context) {
	var req setupSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patternStart, err := parseOptionalTime(req.ShiftPatternStart, false)
	if err != nil {
		AbortWithError(c, newValidationError("shift_pattern_start", "invalid_shift_pattern_start", "invalid shift_pattern_start"))
		return
	}

	setup := settingsdomain.SetupRequest{
		WeeklyTarget:         req.WeeklyTarget,
		BaseCommissionRate:   req.BaseCommissionRate,
		StreakBonusRate:      req.StreakBonusRate,
		StreakBonusThreshold: req.StreakBonusThreshold,
		FixedBonusTiers:      req.FixedBonusTiers,
		ShiftPatternStart:    patternStart,
	}
	if trimmed := strings.TrimSpace(req.CurrentShift); trimmed != "" {
		current := shift.Type(trimmed)
		setup.CurrentShift = &current
	}

	resp, err := s.settingsSvc.Setup(c.Request.Context(), setup)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordSettingsVersion(c, "setup")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCurrentSettings(c *gin.Context) {
	resp, err := s.settingsSvc.GetCurrent(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateSettingsRequest struct {
	ApplyTo              string             `json:"apply_to"`
	WeeklyTarget         *int64             `json:"weekly_target"`
	BaseCommissionRate   *float64           `json:"base_commission_rate"`
	StreakBonusRate      *float64           `json:"streak_bonus_rate"`
	StreakBonusThreshold *int64             `json:"streak_bonus_threshold"`
	FixedBonusTiers      *[]commission.Tier `json:"fixed_bonus_tiers"`
	ShiftPatternStart    *string            `json:"shift_pattern_start"`
	CurrentShift         *string            `json:"current_shift"`
}

func (s *Server) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch := settingsdomain.Patch{
		WeeklyTarget:         req.WeeklyTarget,
		BaseCommissionRate:   req.BaseCommissionRate,
		StreakBonusRate:      req.StreakBonusRate,
		StreakBonusThreshold: req.StreakBonusThreshold,
		FixedBonusTiers:      req.FixedBonusTiers,
	}
	if req.ShiftPatternStart != nil {
		patternStart, err := parseRequiredDate(*req.ShiftPatternStart)
		if err != nil {
			AbortWithError(c, newValidationError("shift_pattern_start", "invalid_shift_pattern_start", "invalid shift_pattern_start"))
			return
		}
		patch.ShiftPatternStart = &patternStart
	}
	if req.CurrentShift != nil {
		current := shift.Type(strings.TrimSpace(*req.CurrentShift))
		patch.CurrentShift = &current
	}

	applyTo := strings.TrimSpace(req.ApplyTo)
	resp, err := s.settingsSvc.Update(c.Request.Context(), settingsdomain.UpdateRequest{
		ApplyTo: applyTo,
		Patch:   patch,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	origin := "amend"
	if applyTo == settingsdomain.ApplyToNextWeek {
		origin = "branch"
	}
	s.recordSettingsVersion(c, origin)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetSettingsForWeek returns the snapshot governing the business week
// containing the date query parameter. Omitting date means the current
// week.
func (s *Server) GetSettingsForWeek(c *gin.Context) {
	var query struct {
		Date string `form:"date"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date := s.clock.Now()
	if trimmed := strings.TrimSpace(query.Date); trimmed != "" {
		parsed, err := parseRequiredDate(trimmed)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
			return
		}
		date = parsed
	}

	resp, err := s.settingsSvc.ResolveForWeek(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, settingsdomain.ErrMissingSettings) && s.obsMetrics != nil {
			s.obsMetrics.RecordResolveMiss(c.Request.Context())
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSettingsHistory(c *gin.Context) {
	resp, err := s.settingsSvc.History(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"history": resp}})
}

func (s *Server) recordSettingsVersion(c *gin.Context, origin string) {
	if s.obsMetrics == nil {
		return
	}
	s.obsMetrics.RecordSettingsVersion(c.Request.Context(), origin)
}

func isSettingsValidationError(err error) bool {
	switch err {
	case settingsdomain.ErrInvalidTarget,
		settingsdomain.ErrInvalidRate,
		settingsdomain.ErrInvalidThreshold,
		settingsdomain.ErrInvalidTier,
		settingsdomain.ErrInvalidShift,
		settingsdomain.ErrInvalidApplyTo:
		return true
	default:
		return false
	}
}

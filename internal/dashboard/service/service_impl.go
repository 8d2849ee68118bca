package service

import (
	"context"
	"time"

	"github.com/estilistapro/estilista/internal/commission"
	"github.com/estilistapro/estilista/internal/dashboard/domain"
	"github.com/estilistapro/estilista/internal/earnings"
	jobdomain "github.com/estilistapro/estilista/internal/job/domain"
	settingsdomain "github.com/estilistapro/estilista/internal/settings/domain"
	"github.com/estilistapro/estilista/internal/shift"
	"github.com/estilistapro/estilista/internal/usercontext"
	"github.com/estilistapro/estilista/internal/week"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Jobs     jobdomain.Repository
	Settings settingsdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	jobs     jobdomain.Repository
	settings settingsdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("dashboard.service"),
		jobs:     p.Jobs,
		settings: p.Settings,
	}
}

// WeekSummary assembles the weekly view. It is read-only: resolving
// settings for a past week never backfills a record.
func (s *Service) WeekSummary(ctx context.Context, req domain.SummaryRequest) (domain.Summary, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Summary{}, settingsdomain.ErrInvalidUser
	}

	ws, we := week.Bounds(req.Date)

	snapshot, err := s.settings.ResolveForWeek(ctx, req.Date)
	if err != nil {
		return domain.Summary{}, err
	}

	items, err := s.jobs.FindBetween(ctx, s.db, userID, ws, we)
	if err != nil {
		return domain.Summary{}, err
	}
	entries := make([]earnings.Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, earnings.Entry{Amount: item.Amount, Tip: item.TipAmount})
	}
	totals := earnings.Collect(entries)

	streak, err := s.settings.StreakLength(ctx, req.Date)
	if err != nil {
		return domain.Summary{}, err
	}

	breakdown := commission.Calculate(totals.Revenue, commission.Params{
		BaseRate:    snapshot.BaseCommissionRate,
		StreakRate:  snapshot.StreakBonusRate,
		StreakWeeks: streak,
	})

	tiers := []commission.Tier(snapshot.FixedBonusTiers)
	fixedBonus := commission.FixedBonus(totals.Revenue, tiers)
	nextTier := commission.NextTier(totals.Revenue, tiers)
	remainingToTier, _ := commission.RemainingToNext(totals.Revenue, tiers)

	summary := domain.Summary{
		WeekStart:           ws,
		WeekEnd:             we,
		Revenue:             totals.Revenue,
		Tips:                totals.Tips,
		Jobs:                totals.Jobs,
		WeeklyTarget:        snapshot.WeeklyTarget,
		TargetMet:           earnings.TargetMet(totals.Revenue, snapshot.WeeklyTarget),
		Commission:          breakdown,
		StreakWeeks:         streak,
		FixedBonus:          fixedBonus,
		NextTier:            nextTier,
		RemainingToNextTier: remainingToTier,
		Shift:               resolveShift(req.Date, snapshot),
		Pocket:              earnings.Pocket(breakdown.Total+float64(fixedBonus), totals.Tips),
	}
	if !summary.TargetMet {
		summary.RemainingToTarget = snapshot.WeeklyTarget - totals.Revenue
	}
	return summary, nil
}

// resolveShift prefers the week's manual override, then the alternating
// pattern. Empty when the user never configured shifts.
func resolveShift(ref time.Time, snapshot settingsdomain.Snapshot) shift.Type {
	if snapshot.CurrentShift != nil && snapshot.CurrentShift.Valid() {
		return *snapshot.CurrentShift
	}
	if snapshot.ShiftPatternStart != nil {
		return shift.Resolve(ref, *snapshot.ShiftPatternStart, nil)
	}
	return ""
}

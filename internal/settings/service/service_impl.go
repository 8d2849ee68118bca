package service

import (
	"context"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/estilistapro/estilista/internal/clock"
	"github.com/estilistapro/estilista/internal/commission"
	"github.com/estilistapro/estilista/internal/settings/domain"
	"github.com/estilistapro/estilista/internal/shift"
	"github.com/estilistapro/estilista/internal/usercontext"
	"github.com/estilistapro/estilista/internal/week"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) ResolveForWeek(ctx context.Context, date time.Time) (domain.Snapshot, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Snapshot{}, domain.ErrInvalidUser
	}

	ws := week.Start(date)
	snapshot, err := s.repo.FindForWeek(ctx, s.db, userID, ws)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if snapshot != nil {
		return *snapshot, nil
	}

	// No interval covers the week. History gaps are tolerated by falling
	// back to the earliest record rather than failing the whole view.
	earliest, err := s.repo.FindEarliest(ctx, s.db, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if earliest == nil {
		return domain.Snapshot{}, domain.ErrMissingSettings
	}

	s.log.Warn("settings gap, using earliest record",
		zap.String("user_id", userID.String()),
		zap.Time("week_start", ws),
	)
	return *earliest, nil
}

func (s *Service) EnsureForWeek(ctx context.Context, date time.Time) (domain.Snapshot, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Snapshot{}, domain.ErrInvalidUser
	}

	ws := week.Start(date)
	snapshot, err := s.repo.FindForWeek(ctx, s.db, userID, ws)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if snapshot != nil {
		return *snapshot, nil
	}

	var ensured domain.Snapshot
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check under the transaction so two mutations for the same
		// week insert a single record.
		existing, err := s.repo.FindForWeek(ctx, tx, userID, ws)
		if err != nil {
			return err
		}
		if existing != nil {
			ensured = *existing
			return nil
		}

		prev, err := s.repo.FindLatestBefore(ctx, tx, userID, ws)
		if err != nil {
			return err
		}

		fresh := domain.Defaults()
		if prev != nil {
			fresh = *prev
			fresh.CurrentShift = flipShift(prev.CurrentShift)
			fresh.StreakThresholdMet = false
		}

		now := s.clock.Now()
		next := week.Next(ws)
		fresh.ID = s.genID.Generate()
		fresh.UserID = userID
		fresh.EffectiveFrom = ws
		fresh.EffectiveTo = &next
		fresh.CreatedAt = now
		fresh.UpdatedAt = now

		if err := s.repo.Insert(ctx, tx, &fresh); err != nil {
			return err
		}
		ensured = fresh

		s.log.Info("settings record created for week",
			zap.String("user_id", userID.String()),
			zap.Time("week_start", ws),
			zap.Bool("copied", prev != nil),
		)
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return ensured, nil
}

func (s *Service) AmendCurrentWeek(ctx context.Context, patch domain.Patch) (domain.Snapshot, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Snapshot{}, domain.ErrInvalidUser
	}
	if err := validatePatch(patch); err != nil {
		return domain.Snapshot{}, err
	}

	open, err := s.repo.FindOpen(ctx, s.db, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if open == nil {
		return domain.Snapshot{}, domain.ErrMissingSettings
	}

	patch.Apply(open)
	open.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, s.db, open); err != nil {
		return domain.Snapshot{}, err
	}
	return *open, nil
}

func (s *Service) BranchNextWeek(ctx context.Context, patch domain.Patch) (domain.Snapshot, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Snapshot{}, domain.ErrInvalidUser
	}
	if err := validatePatch(patch); err != nil {
		return domain.Snapshot{}, err
	}

	var branched domain.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := s.repo.FindOpen(ctx, tx, userID)
		if err != nil {
			return err
		}
		if open == nil {
			return domain.ErrMissingSettings
		}

		now := s.clock.Now()
		nextWS := week.Next(week.Start(now))
		if err := s.repo.CloseAt(ctx, tx, open.ID, nextWS); err != nil {
			return err
		}

		fresh := *open
		patch.Apply(&fresh)
		fresh.ID = s.genID.Generate()
		fresh.StreakThresholdMet = false
		fresh.EffectiveFrom = nextWS
		fresh.EffectiveTo = nil
		fresh.CreatedAt = now
		fresh.UpdatedAt = now

		if err := s.repo.Insert(ctx, tx, &fresh); err != nil {
			return err
		}
		branched = fresh

		s.log.Info("settings branched for next week",
			zap.String("user_id", userID.String()),
			zap.Time("effective_from", nextWS),
		)
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return branched, nil
}

func (s *Service) MarkThresholdForWeek(ctx context.Context, date time.Time) error {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.ErrInvalidUser
	}

	ws, we := week.Bounds(date)
	snapshot, err := s.repo.FindForWeek(ctx, s.db, userID, ws)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return domain.ErrMissingSettings
	}

	revenue, err := s.repo.WeekRevenue(ctx, s.db, userID, ws, we)
	if err != nil {
		return err
	}

	met := revenue >= snapshot.StreakBonusThreshold
	if met == snapshot.StreakThresholdMet {
		return nil
	}
	return s.repo.SetThresholdMet(ctx, s.db, snapshot.ID, met)
}

func (s *Service) StreakLength(ctx context.Context, date time.Time) (int, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return 0, domain.ErrInvalidUser
	}

	count := 0
	cursor := week.Start(date)
	for i := 0; i < commission.MaxStreakWeeks; i++ {
		snapshot, err := s.repo.FindForWeek(ctx, s.db, userID, cursor)
		if err != nil {
			return 0, err
		}
		// A week without a covering record breaks the streak.
		if snapshot == nil || !snapshot.StreakThresholdMet {
			break
		}
		count++
		cursor = week.Previous(cursor)
	}
	return count, nil
}

func (s *Service) GetCurrent(ctx context.Context) (domain.Snapshot, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Snapshot{}, domain.ErrInvalidUser
	}

	open, err := s.repo.FindOpen(ctx, s.db, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if open == nil {
		return domain.Snapshot{}, domain.ErrMissingSettings
	}
	return *open, nil
}

func (s *Service) History(ctx context.Context) ([]domain.Snapshot, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	items, err := s.repo.List(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.Snapshot, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		snapshots = append(snapshots, *item)
	}
	return snapshots, nil
}

func (s *Service) Setup(ctx context.Context, req domain.SetupRequest) (domain.Snapshot, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Snapshot{}, domain.ErrInvalidUser
	}
	if err := validateSetup(req); err != nil {
		return domain.Snapshot{}, err
	}

	var created domain.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		open, err := s.repo.FindOpen(ctx, tx, userID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrAlreadyInitialized
		}

		now := s.clock.Now()
		fresh := domain.Defaults()
		fresh.ID = s.genID.Generate()
		fresh.UserID = userID
		fresh.WeeklyTarget = req.WeeklyTarget
		fresh.BaseCommissionRate = req.BaseCommissionRate
		fresh.StreakBonusRate = req.StreakBonusRate
		fresh.StreakBonusThreshold = req.StreakBonusThreshold
		fresh.FixedBonusTiers = datatypes.NewJSONSlice(req.FixedBonusTiers)
		fresh.ShiftPatternStart = req.ShiftPatternStart
		fresh.CurrentShift = req.CurrentShift
		fresh.EffectiveFrom = week.Start(now)
		fresh.EffectiveTo = nil
		fresh.CreatedAt = now
		fresh.UpdatedAt = now

		if err := s.repo.Insert(ctx, tx, &fresh); err != nil {
			return err
		}
		created = fresh
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Snapshot, error) {
	switch req.ApplyTo {
	case domain.ApplyToCurrentWeek:
		return s.AmendCurrentWeek(ctx, req.Patch)
	case domain.ApplyToNextWeek:
		return s.BranchNextWeek(ctx, req.Patch)
	default:
		return domain.Snapshot{}, domain.ErrInvalidApplyTo
	}
}

func flipShift(current *shift.Type) *shift.Type {
	if current == nil {
		return nil
	}
	opposite := shift.Opposite(*current)
	return &opposite
}

func validateSetup(req domain.SetupRequest) error {
	if req.WeeklyTarget < 0 {
		return domain.ErrInvalidTarget
	}
	if !validRate(req.BaseCommissionRate) || !validRate(req.StreakBonusRate) {
		return domain.ErrInvalidRate
	}
	if req.StreakBonusThreshold < 0 {
		return domain.ErrInvalidThreshold
	}
	if err := validateTiers(req.FixedBonusTiers); err != nil {
		return err
	}
	if req.CurrentShift != nil && !req.CurrentShift.Valid() {
		return domain.ErrInvalidShift
	}
	return nil
}

func validatePatch(patch domain.Patch) error {
	if patch.WeeklyTarget != nil && *patch.WeeklyTarget < 0 {
		return domain.ErrInvalidTarget
	}
	if patch.BaseCommissionRate != nil && !validRate(*patch.BaseCommissionRate) {
		return domain.ErrInvalidRate
	}
	if patch.StreakBonusRate != nil && !validRate(*patch.StreakBonusRate) {
		return domain.ErrInvalidRate
	}
	if patch.StreakBonusThreshold != nil && *patch.StreakBonusThreshold < 0 {
		return domain.ErrInvalidThreshold
	}
	if patch.FixedBonusTiers != nil {
		if err := validateTiers(*patch.FixedBonusTiers); err != nil {
			return err
		}
	}
	if patch.CurrentShift != nil && !patch.CurrentShift.Valid() {
		return domain.ErrInvalidShift
	}
	return nil
}

func validateTiers(tiers []commission.Tier) error {
	for _, tier := range tiers {
		if tier.Threshold < 0 || tier.Bonus < 0 {
			return domain.ErrInvalidTier
		}
	}
	return nil
}

func validRate(rate float64) bool {
	return !math.IsNaN(rate) && rate >= 0 && rate <= 1
}

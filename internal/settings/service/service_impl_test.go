package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/estilistapro/estilista/internal/clock"
	"github.com/estilistapro/estilista/internal/commission"
	jobdomain "github.com/estilistapro/estilista/internal/job/domain"
	"github.com/estilistapro/estilista/internal/settings/domain"
	"github.com/estilistapro/estilista/internal/settings/repository"
	"github.com/estilistapro/estilista/internal/shift"
	"github.com/estilistapro/estilista/internal/usercontext"
	"github.com/estilistapro/estilista/internal/week"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 2026-01-10 is a Saturday, so the business week starts here.
var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

const testUserID int64 = 42

func newTestService(t *testing.T) (*Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Snapshot{}, &jobdomain.Job{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(testNow)
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc.(*Service), db, fake
}

func testCtx() context.Context {
	return usercontext.WithUserID(context.Background(), testUserID)
}

func TestSetupCreatesOpenRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testCtx()

	morning := shift.Morning
	created, err := svc.Setup(ctx, domain.SetupRequest{
		WeeklyTarget:         150000,
		BaseCommissionRate:   0.40,
		StreakBonusRate:      0.05,
		StreakBonusThreshold: 100000,
		FixedBonusTiers:      []commission.Tier{{Threshold: 100000, Bonus: 10000}},
		CurrentShift:         &morning,
	})
	require.NoError(t, err)
	require.Equal(t, week.Start(testNow), created.EffectiveFrom)
	require.Nil(t, created.EffectiveTo)
	require.Equal(t, int64(100000), created.StreakBonusThreshold)

	_, err = svc.Setup(ctx, domain.SetupRequest{BaseCommissionRate: 0.40})
	require.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestSetupRejectsBadRates(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Setup(testCtx(), domain.SetupRequest{BaseCommissionRate: 1.5})
	require.ErrorIs(t, err, domain.ErrInvalidRate)

	_, err = svc.Setup(testCtx(), domain.SetupRequest{
		BaseCommissionRate: 0.40,
		WeeklyTarget:       -1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidTarget)
}

func TestEnsureForWeekDefaultsWithoutHistory(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testCtx()

	ensured, err := svc.EnsureForWeek(ctx, testNow)
	require.NoError(t, err)

	ws := week.Start(testNow)
	require.Equal(t, ws, ensured.EffectiveFrom)
	require.NotNil(t, ensured.EffectiveTo)
	require.Equal(t, week.Next(ws), *ensured.EffectiveTo)
	require.Equal(t, int64(150000), ensured.WeeklyTarget)
	require.Equal(t, 0.40, ensured.BaseCommissionRate)
	require.False(t, ensured.StreakThresholdMet)

	// Idempotent: a second call returns the same record.
	again, err := svc.EnsureForWeek(ctx, testNow)
	require.NoError(t, err)
	require.Equal(t, ensured.ID, again.ID)
}

func TestEnsureForWeekCopiesLatestPriorAndFlipsShift(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := testCtx()

	ws := week.Start(testNow)
	priorWS := week.Previous(week.Previous(ws))
	priorTo := week.Next(priorWS)
	morning := shift.Morning
	prior := domain.Snapshot{
		ID:                   snowflake.ID(1),
		UserID:               snowflake.ID(testUserID),
		WeeklyTarget:         200000,
		BaseCommissionRate:   0.45,
		StreakBonusRate:      0.05,
		StreakBonusThreshold: 120000,
		WeekStartDay:         6,
		CurrentShift:         &morning,
		StreakThresholdMet:   true,
		EffectiveFrom:        priorWS,
		EffectiveTo:          &priorTo,
		CreatedAt:            priorWS,
		UpdatedAt:            priorWS,
	}
	require.NoError(t, db.Create(&prior).Error)

	ensured, err := svc.EnsureForWeek(ctx, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(200000), ensured.WeeklyTarget)
	require.Equal(t, 0.45, ensured.BaseCommissionRate)
	require.False(t, ensured.StreakThresholdMet)
	require.NotNil(t, ensured.CurrentShift)
	require.Equal(t, shift.Afternoon, *ensured.CurrentShift)
	require.Equal(t, ws, ensured.EffectiveFrom)
	require.NotNil(t, ensured.EffectiveTo)
	require.Equal(t, week.Next(ws), *ensured.EffectiveTo)
}

func TestResolveForWeekFallsBackToEarliest(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testCtx()

	_, err := svc.ResolveForWeek(ctx, testNow)
	require.ErrorIs(t, err, domain.ErrMissingSettings)

	// A record two weeks out exists but nothing covers this week.
	ensured, err := svc.EnsureForWeek(ctx, week.Navigate(testNow, -3))
	require.NoError(t, err)

	resolved, err := svc.ResolveForWeek(ctx, testNow)
	require.NoError(t, err)
	require.Equal(t, ensured.ID, resolved.ID)
}

func TestAmendCurrentWeekEditsOpenRecordInPlace(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testCtx()

	created, err := svc.Setup(ctx, domain.SetupRequest{
		WeeklyTarget:       150000,
		BaseCommissionRate: 0.40,
		StreakBonusRate:    0.05,
	})
	require.NoError(t, err)

	target := int64(175000)
	amended, err := svc.Update(ctx, domain.UpdateRequest{
		ApplyTo: domain.ApplyToCurrentWeek,
		Patch:   domain.Patch{WeeklyTarget: &target},
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, amended.ID)
	require.Equal(t, target, amended.WeeklyTarget)
	require.Equal(t, created.EffectiveFrom, amended.EffectiveFrom)
	require.Nil(t, amended.EffectiveTo)
}

func TestBranchNextWeekClosesOpenRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := testCtx()

	created, err := svc.Setup(ctx, domain.SetupRequest{
		WeeklyTarget:       150000,
		BaseCommissionRate: 0.40,
		StreakBonusRate:    0.05,
	})
	require.NoError(t, err)

	rate := 0.50
	branched, err := svc.Update(ctx, domain.UpdateRequest{
		ApplyTo: domain.ApplyToNextWeek,
		Patch:   domain.Patch{BaseCommissionRate: &rate},
	})
	require.NoError(t, err)

	nextWS := week.Next(week.Start(testNow))
	require.NotEqual(t, created.ID, branched.ID)
	require.Equal(t, nextWS, branched.EffectiveFrom)
	require.Nil(t, branched.EffectiveTo)
	require.Equal(t, rate, branched.BaseCommissionRate)
	require.False(t, branched.StreakThresholdMet)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)

	open, err := svc.GetCurrent(ctx)
	require.NoError(t, err)
	require.Equal(t, branched.ID, open.ID)

	// The previous record is now closed exactly at the branch point.
	var closed *domain.Snapshot
	for i := range history {
		if history[i].ID == created.ID {
			closed = &history[i]
		}
	}
	require.NotNil(t, closed)
	require.NotNil(t, closed.EffectiveTo)
	require.True(t, nextWS.Equal(*closed.EffectiveTo))
}

func TestUpdateRejectsUnknownApplyTo(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(testCtx(), domain.UpdateRequest{ApplyTo: "someday"})
	require.ErrorIs(t, err, domain.ErrInvalidApplyTo)
}

func TestMarkThresholdForWeekComparesRevenue(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := testCtx()

	_, err := svc.Setup(ctx, domain.SetupRequest{
		WeeklyTarget:         150000,
		BaseCommissionRate:   0.40,
		StreakBonusRate:      0.05,
		StreakBonusThreshold: 100000,
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&jobdomain.Job{
		ID:        snowflake.ID(1),
		UserID:    snowflake.ID(testUserID),
		Amount:    60000,
		Date:      testNow,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}).Error)

	require.NoError(t, svc.MarkThresholdForWeek(ctx, testNow))
	open, err := svc.GetCurrent(ctx)
	require.NoError(t, err)
	require.False(t, open.StreakThresholdMet)

	require.NoError(t, db.Create(&jobdomain.Job{
		ID:        snowflake.ID(2),
		UserID:    snowflake.ID(testUserID),
		Amount:    40000,
		Date:      testNow.AddDate(0, 0, 1),
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}).Error)

	require.NoError(t, svc.MarkThresholdForWeek(ctx, testNow))
	open, err = svc.GetCurrent(ctx)
	require.NoError(t, err)
	require.True(t, open.StreakThresholdMet)
}

func TestStreakLengthStopsAtFirstMiss(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := testCtx()

	ws := week.Start(testNow)
	// Walking backward from this week: met, met, missed, met, met.
	flags := []bool{true, true, false, true, true}
	for i, met := range flags {
		from := week.Navigate(ws, -i)
		to := week.Next(from)
		record := domain.Snapshot{
			ID:                 snowflake.ID(100 + i),
			UserID:             snowflake.ID(testUserID),
			WeeklyTarget:       150000,
			BaseCommissionRate: 0.40,
			WeekStartDay:       6,
			StreakThresholdMet: met,
			EffectiveFrom:      from,
			EffectiveTo:        &to,
			CreatedAt:          from,
			UpdatedAt:          from,
		}
		require.NoError(t, db.Create(&record).Error)
	}

	count, err := svc.StreakLength(ctx, testNow)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestStreakLengthCapped(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := testCtx()

	ws := week.Start(testNow)
	for i := 0; i < 6; i++ {
		from := week.Navigate(ws, -i)
		to := week.Next(from)
		record := domain.Snapshot{
			ID:                 snowflake.ID(200 + i),
			UserID:             snowflake.ID(testUserID),
			WeekStartDay:       6,
			StreakThresholdMet: true,
			EffectiveFrom:      from,
			EffectiveTo:        &to,
			CreatedAt:          from,
			UpdatedAt:          from,
		}
		require.NoError(t, db.Create(&record).Error)
	}

	count, err := svc.StreakLength(ctx, testNow)
	require.NoError(t, err)
	require.Equal(t, commission.MaxStreakWeeks, count)
}

func TestServiceRequiresUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetCurrent(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = svc.ResolveForWeek(context.Background(), testNow)
	require.ErrorIs(t, err, domain.ErrInvalidUser)
}

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
	"github.com/estilistapro/estilista/internal/dashboard/domain"
	jobdomain "github.com/estilistapro/estilista/internal/job/domain"
	jobrepo "github.com/estilistapro/estilista/internal/job/repository"
	jobsvc "github.com/estilistapro/estilista/internal/job/service"
	settingsdomain "github.com/estilistapro/estilista/internal/settings/domain"
	settingsrepo "github.com/estilistapro/estilista/internal/settings/repository"
	settingssvc "github.com/estilistapro/estilista/internal/settings/service"
	"github.com/estilistapro/estilista/internal/shift"
	"github.com/estilistapro/estilista/internal/usercontext"
	"github.com/estilistapro/estilista/internal/week"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 2026-01-10 is a Saturday, the first day of the business week.
var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

const testUserID int64 = 42

type fixture struct {
	dashboard domain.Service
	jobs      jobdomain.Service
	settings  settingsdomain.Service
	db        *gorm.DB
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&jobdomain.Job{}, &settingsdomain.Snapshot{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(testNow)
	settings := settingssvc.New(settingssvc.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  settingsrepo.Provide(),
	})
	jobs := jobsvc.New(jobsvc.Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     jobrepo.Provide(),
		Settings: settings,
	})
	dashboard := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Jobs:     jobrepo.Provide(),
		Settings: settings,
	})
	return fixture{dashboard: dashboard, jobs: jobs, settings: settings, db: db}
}

func testCtx() context.Context {
	return usercontext.WithUserID(context.Background(), testUserID)
}

func TestWeekSummaryFullScenario(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx()

	ws := week.Start(testNow)
	_, err := f.settings.Setup(ctx, settingsdomain.SetupRequest{
		WeeklyTarget:         150000,
		BaseCommissionRate:   0.40,
		StreakBonusRate:      0.05,
		StreakBonusThreshold: 100000,
		FixedBonusTiers:      []commission.Tier{{Threshold: 100000, Bonus: 10000}},
		ShiftPatternStart:    &ws,
	})
	require.NoError(t, err)

	// Last week cleared the threshold, the week before did not exist.
	prevWS := week.Previous(ws)
	prevTo := ws
	require.NoError(t, f.db.Create(&settingsdomain.Snapshot{
		ID:                 snowflake.ID(1),
		UserID:             snowflake.ID(testUserID),
		WeeklyTarget:       150000,
		BaseCommissionRate: 0.40,
		StreakBonusRate:    0.05,
		WeekStartDay:       6,
		StreakThresholdMet: true,
		EffectiveFrom:      prevWS,
		EffectiveTo:        &prevTo,
		CreatedAt:          prevWS,
		UpdatedAt:          prevWS,
	}).Error)

	_, err = f.jobs.Create(ctx, jobdomain.CreateJobRequest{Amount: 70000, TipAmount: 5000, Date: testNow})
	require.NoError(t, err)
	_, err = f.jobs.Create(ctx, jobdomain.CreateJobRequest{Amount: 50000, TipAmount: 3000, Date: testNow.AddDate(0, 0, 3)})
	require.NoError(t, err)

	summary, err := f.dashboard.WeekSummary(ctx, domain.SummaryRequest{Date: testNow})
	require.NoError(t, err)

	require.True(t, ws.Equal(summary.WeekStart))
	require.Equal(t, int64(120000), summary.Revenue)
	require.Equal(t, int64(8000), summary.Tips)
	require.Equal(t, 2, summary.Jobs)

	require.False(t, summary.TargetMet)
	require.Equal(t, int64(30000), summary.RemainingToTarget)

	// This week cleared the threshold too, so the streak is two.
	require.Equal(t, 2, summary.StreakWeeks)
	require.InDelta(t, 48000, summary.Commission.Base, 0.001)
	require.InDelta(t, 12000, summary.Commission.StreakBonus, 0.001)
	require.InDelta(t, 60000, summary.Commission.Total, 0.001)

	require.Equal(t, int64(10000), summary.FixedBonus)
	require.Nil(t, summary.NextTier)
	require.Equal(t, int64(0), summary.RemainingToNextTier)

	require.Equal(t, shift.Morning, summary.Shift)
	require.InDelta(t, 78000, summary.Pocket, 0.001)
}

func TestWeekSummaryWithoutSettings(t *testing.T) {
	f := newFixture(t)

	_, err := f.dashboard.WeekSummary(testCtx(), domain.SummaryRequest{Date: testNow})
	require.ErrorIs(t, err, settingsdomain.ErrMissingSettings)
}

func TestWeekSummaryEmptyWeek(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx()

	_, err := f.settings.Setup(ctx, settingsdomain.SetupRequest{
		WeeklyTarget:       100000,
		BaseCommissionRate: 0.40,
		StreakBonusRate:    0.05,
	})
	require.NoError(t, err)

	summary, err := f.dashboard.WeekSummary(ctx, domain.SummaryRequest{Date: testNow})
	require.NoError(t, err)
	require.Zero(t, summary.Revenue)
	require.Zero(t, summary.Jobs)
	require.False(t, summary.TargetMet)
	require.Equal(t, int64(100000), summary.RemainingToTarget)
	require.Zero(t, summary.Commission.Total)
	require.Zero(t, summary.Pocket)
}

func TestWeekSummaryPastWeekUsesItsOwnSettings(t *testing.T) {
	f := newFixture(t)
	ctx := testCtx()

	_, err := f.settings.Setup(ctx, settingsdomain.SetupRequest{
		WeeklyTarget:       150000,
		BaseCommissionRate: 0.50,
		StreakBonusRate:    0.05,
	})
	require.NoError(t, err)

	// A job two weeks back creates a default-rate record for that week.
	past := week.Navigate(testNow, -2)
	_, err = f.jobs.Create(ctx, jobdomain.CreateJobRequest{Amount: 100000, Date: past})
	require.NoError(t, err)

	summary, err := f.dashboard.WeekSummary(ctx, domain.SummaryRequest{Date: past})
	require.NoError(t, err)
	require.Equal(t, int64(100000), summary.Revenue)
	require.InDelta(t, 40000, summary.Commission.Base, 0.001)
}

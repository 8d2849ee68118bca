package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/estilistapro/estilista/internal/clock"
	"github.com/estilistapro/estilista/internal/job/domain"
	obsmetrics "github.com/estilistapro/estilista/internal/observability/metrics"
	settingsdomain "github.com/estilistapro/estilista/internal/settings/domain"
	"github.com/estilistapro/estilista/internal/usercontext"
	"github.com/estilistapro/estilista/internal/week"
	"github.com/estilistapro/estilista/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Settings settingsdomain.Service
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	settings settingsdomain.Service
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("job.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		settings: p.Settings,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateJobRequest) (domain.Job, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Job{}, domain.ErrInvalidUser
	}
	if err := validateCreate(req); err != nil {
		return domain.Job{}, err
	}

	date := normalizeDate(req.Date)

	// The week must have a settings record before revenue lands in it,
	// otherwise later edits to the open record would rewrite history.
	if _, err := s.settings.EnsureForWeek(ctx, date); err != nil {
		return domain.Job{}, err
	}

	now := s.clock.Now()
	job := domain.Job{
		ID:          s.genID.Generate(),
		UserID:      userID,
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		TipAmount:   req.TipAmount,
		Date:        date,
		Description: req.Description,
		Photos:      datatypes.NewJSONSlice(emptyIfNil(req.Photos)),
		Rating:      req.Rating,
		Tags:        datatypes.NewJSONSlice(emptyIfNil(req.Tags)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &job); err != nil {
		return domain.Job{}, err
	}

	s.recomputeStreak(ctx, date)
	return job, nil
}

func (s *Service) List(ctx context.Context, req domain.ListJobRequest) (domain.ListJobResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.ListJobResponse{}, domain.ErrInvalidUser
	}

	size := req.PageSize
	if size <= 0 {
		size = 10
	}
	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(size),
	}
	filter := domain.ListJobFilter{
		From:     req.From,
		To:       req.To,
		ClientID: req.ClientID,
	}

	items, err := s.repo.List(ctx, s.db, userID, filter, page)
	if err != nil {
		return domain.ListJobResponse{}, err
	}

	// The cursor carries the date because the listing sorts on it first;
	// paging on (created_at, id) alone would skip backdated entries.
	pageInfo := pagination.BuildCursorPageInfo(items, size, func(job *domain.Job) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        job.ID.String(),
			CreatedAt: job.CreatedAt.UTC().Format(time.RFC3339Nano),
			Date:      job.Date.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	if len(items) > int(size) {
		items = items[:size]
	}
	jobs := make([]domain.Job, 0, len(items))
	for _, item := range items {
		jobs = append(jobs, *item)
	}

	return domain.ListJobResponse{
		PageInfo: *pageInfo,
		Jobs:     jobs,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetJobRequest) (domain.Job, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Job{}, domain.ErrInvalidUser
	}

	id, err := snowflake.ParseString(req.ID)
	if err != nil {
		return domain.Job{}, domain.ErrInvalidID
	}

	job, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return domain.Job{}, err
	}
	if job == nil {
		return domain.Job{}, domain.ErrNotFound
	}
	return *job, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateJobRequest) (domain.Job, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Job{}, domain.ErrInvalidUser
	}

	id, err := snowflake.ParseString(req.ID)
	if err != nil {
		return domain.Job{}, domain.ErrInvalidID
	}
	if err := validateUpdate(req); err != nil {
		return domain.Job{}, err
	}

	job, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return domain.Job{}, err
	}
	if job == nil {
		return domain.Job{}, domain.ErrNotFound
	}

	oldDate := job.Date
	applyUpdate(job, req)
	job.UpdatedAt = s.clock.Now()

	if _, err := s.settings.EnsureForWeek(ctx, job.Date); err != nil {
		return domain.Job{}, err
	}
	if err := s.repo.Save(ctx, s.db, job); err != nil {
		return domain.Job{}, err
	}

	s.recomputeStreak(ctx, job.Date)
	if !week.Same(oldDate, job.Date) {
		s.recomputeStreak(ctx, oldDate)
	}
	return *job, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteJobRequest) error {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.ErrInvalidUser
	}

	id, err := snowflake.ParseString(req.ID)
	if err != nil {
		return domain.ErrInvalidID
	}

	job, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return err
	}
	if job == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, userID, id); err != nil {
		return err
	}

	s.recomputeStreak(ctx, job.Date)
	return nil
}

// recomputeStreak refreshes the week's threshold flag. Failures are
// logged, never surfaced: the job mutation already committed.
func (s *Service) recomputeStreak(ctx context.Context, date time.Time) {
	if err := s.settings.MarkThresholdForWeek(ctx, date); err != nil {
		s.metrics.RecordStreakRecompute(ctx, "error")
		s.log.Warn("streak recompute failed",
			zap.Time("week_start", week.Start(date)),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordStreakRecompute(ctx, "ok")
}

func applyUpdate(job *domain.Job, req domain.UpdateJobRequest) {
	if req.ClientID != nil {
		job.ClientID = req.ClientID
	}
	if req.Amount != nil {
		job.Amount = *req.Amount
	}
	if req.TipAmount != nil {
		job.TipAmount = *req.TipAmount
	}
	if req.Date != nil {
		job.Date = normalizeDate(*req.Date)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Photos != nil {
		job.Photos = datatypes.NewJSONSlice(emptyIfNil(*req.Photos))
	}
	if req.Rating != nil {
		job.Rating = req.Rating
	}
	if req.Tags != nil {
		job.Tags = datatypes.NewJSONSlice(emptyIfNil(*req.Tags))
	}
}

func validateCreate(req domain.CreateJobRequest) error {
	if req.Amount < 0 {
		return domain.ErrInvalidAmount
	}
	if req.TipAmount < 0 {
		return domain.ErrInvalidTip
	}
	if req.Date.IsZero() {
		return domain.ErrInvalidDate
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return domain.ErrInvalidRating
	}
	return nil
}

func validateUpdate(req domain.UpdateJobRequest) error {
	if req.Amount != nil && *req.Amount < 0 {
		return domain.ErrInvalidAmount
	}
	if req.TipAmount != nil && *req.TipAmount < 0 {
		return domain.ErrInvalidTip
	}
	if req.Date != nil && req.Date.IsZero() {
		return domain.ErrInvalidDate
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return domain.ErrInvalidRating
	}
	return nil
}

// normalizeDate strips the time of day so the stored value matches the
// DATE column regardless of the caller's clock.
func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

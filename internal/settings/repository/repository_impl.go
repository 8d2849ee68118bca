package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/estilistapro/estilista/internal/settings/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, snapshot *domain.Snapshot) error {
	return db.WithContext(ctx).Create(snapshot).Error
}

func (r *repo) FindForWeek(ctx context.Context, db *gorm.DB, userID snowflake.ID, weekStart time.Time) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("effective_from <= ?", weekStart).
		Where("effective_to > ? OR effective_to IS NULL", weekStart).
		Order("effective_from DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *repo) FindOpen(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := db.WithContext(ctx).
		Where("user_id = ? AND effective_to IS NULL", userID).
		Order("effective_from DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *repo) FindLatestBefore(ctx context.Context, db *gorm.DB, userID snowflake.ID, before time.Time) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := db.WithContext(ctx).
		Where("user_id = ? AND effective_from < ?", userID, before).
		Order("effective_from DESC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *repo) FindEarliest(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("effective_from ASC").
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.Snapshot, error) {
	var snapshots []*domain.Snapshot
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("effective_from DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *repo) CloseAt(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Snapshot{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"effective_to": at,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, snapshot *domain.Snapshot) error {
	return db.WithContext(ctx).Save(snapshot).Error
}

func (r *repo) SetThresholdMet(ctx context.Context, db *gorm.DB, id snowflake.ID, met bool) error {
	return db.WithContext(ctx).
		Model(&domain.Snapshot{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"streak_threshold_met": met,
			"updated_at":           time.Now().UTC(),
		}).Error
}

func (r *repo) WeekRevenue(ctx context.Context, db *gorm.DB, userID snowflake.ID, start, end time.Time) (int64, error) {
	var total *int64
	err := db.WithContext(ctx).Raw(
		`SELECT SUM(amount) FROM jobs WHERE user_id = ? AND date >= ? AND date <= ?`,
		userID, start, end,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

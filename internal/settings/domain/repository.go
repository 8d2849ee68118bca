package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, snapshot *Snapshot) error
	// FindForWeek is the strict resolve: the latest record whose interval
	// covers weekStart, or nil.
	FindForWeek(ctx context.Context, db *gorm.DB, userID snowflake.ID, weekStart time.Time) (*Snapshot, error)
	FindOpen(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Snapshot, error)
	FindLatestBefore(ctx context.Context, db *gorm.DB, userID snowflake.ID, before time.Time) (*Snapshot, error)
	FindEarliest(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Snapshot, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*Snapshot, error)
	CloseAt(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	Save(ctx context.Context, db *gorm.DB, snapshot *Snapshot) error
	SetThresholdMet(ctx context.Context, db *gorm.DB, id snowflake.ID, met bool) error
	// WeekRevenue sums job amounts for the user inside [start, end].
	WeekRevenue(ctx context.Context, db *gorm.DB, userID snowflake.ID, start, end time.Time) (int64, error)
}

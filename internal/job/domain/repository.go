package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/estilistapro/estilista/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, job *Job) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*Job, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter ListJobFilter, page pagination.Pagination) ([]*Job, error)
	// FindBetween returns every job with a date inside [from, to],
	// unpaginated, for weekly aggregation.
	FindBetween(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) ([]*Job, error)
	Save(ctx context.Context, db *gorm.DB, job *Job) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
}

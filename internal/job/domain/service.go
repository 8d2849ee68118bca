package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/estilistapro/estilista/pkg/db/pagination"
)

type CreateJobRequest struct {
	ClientID    *snowflake.ID
	Amount      int64
	TipAmount   int64
	Date        time.Time
	Description string
	Photos      []string
	Rating      *int
	Tags        []string
}

type UpdateJobRequest struct {
	ID          string
	ClientID    *snowflake.ID
	Amount      *int64
	TipAmount   *int64
	Date        *time.Time
	Description *string
	Photos      *[]string
	Rating      *int
	Tags        *[]string
}

type ListJobRequest struct {
	PageToken string
	PageSize  int32
	From      *time.Time
	To        *time.Time
	ClientID  *snowflake.ID
}

type ListJobFilter struct {
	From     *time.Time
	To       *time.Time
	ClientID *snowflake.ID
}

type ListJobResponse struct {
	pagination.PageInfo
	Jobs []Job `json:"jobs"`
}

type GetJobRequest struct {
	ID string
}

type DeleteJobRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateJobRequest) (Job, error)
	List(context.Context, ListJobRequest) (ListJobResponse, error)
	GetByID(context.Context, GetJobRequest) (Job, error)
	Update(context.Context, UpdateJobRequest) (Job, error)
	Delete(context.Context, DeleteJobRequest) error
}

var (
	ErrInvalidUser   = errors.New("invalid_user")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidTip    = errors.New("invalid_tip")
	ErrInvalidRating = errors.New("invalid_rating")
	ErrInvalidDate   = errors.New("invalid_date")
	ErrNotFound      = errors.New("not_found")
)

package domain

import (
	"context"
	"errors"

	"github.com/estilistapro/estilista/pkg/db/pagination"
)

type CreateClientRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Notes  string `json:"notes"`
	Status Status `json:"status"`
}

type UpdateClientRequest struct {
	ID     string  `json:"-"`
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Notes  *string `json:"notes,omitempty"`
	Status *Status `json:"status,omitempty"`
}

type ListClientRequest struct {
	PageToken string
	PageSize  int32
	Status    Status
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type GetClientRequest struct {
	ID string
}

type DeleteClientRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	List(context.Context, ListClientRequest) (ListClientResponse, error)
	GetByID(context.Context, GetClientRequest) (Client, error)
	Update(context.Context, UpdateClientRequest) (Client, error)
	Delete(context.Context, DeleteClientRequest) error
}

var (
	ErrInvalidUser   = errors.New("invalid_user")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("not_found")
)

package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/estilistapro/estilista/internal/client/domain"
	"github.com/estilistapro/estilista/internal/clock"
	"github.com/estilistapro/estilista/internal/usercontext"
	"github.com/estilistapro/estilista/pkg/db/option"
	"github.com/estilistapro/estilista/pkg/db/pagination"
	"github.com/estilistapro/estilista/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Store repository.Repository[domain.Client]
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	store repository.Repository[domain.Client]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		clock: p.Clock,
		store: p.Store,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Client{}, domain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}
	status := req.Status
	if status == "" {
		status = domain.StatusGood
	}
	if !status.Valid() {
		return domain.Client{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	client := domain.Client{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Notes:     req.Notes,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, &client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (domain.ListClientResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.ListClientResponse{}, domain.ErrInvalidUser
	}

	size := req.PageSize
	if size <= 0 {
		size = 10
	}
	page := pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(size),
	}

	query := domain.Client{UserID: userID}
	if req.Status != "" {
		if !req.Status.Valid() {
			return domain.ListClientResponse{}, domain.ErrInvalidStatus
		}
		query.Status = req.Status
	}

	items, err := s.store.Find(ctx, &query,
		option.ApplyPagination(page),
		option.WithOrder("created_at desc, id desc"),
	)
	if err != nil {
		return domain.ListClientResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, size, func(client *domain.Client) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        client.ID.String(),
			CreatedAt: client.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	if len(items) > int(size) {
		items = items[:size]
	}
	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		clients = append(clients, *item)
	}

	return domain.ListClientResponse{
		PageInfo: *pageInfo,
		Clients:  clients,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetClientRequest) (domain.Client, error) {
	client, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Client{}, err
	}
	return *client, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClientRequest) (domain.Client, error) {
	client, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	// gorm Updates skips zero-value struct fields, so the patch goes
	// through a column map to let callers clear phone or notes.
	changes := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Client{}, domain.ErrInvalidName
		}
		client.Name = name
		changes["name"] = name
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
		changes["phone"] = client.Phone
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
		changes["notes"] = client.Notes
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return domain.Client{}, domain.ErrInvalidStatus
		}
		client.Status = *req.Status
		changes["status"] = client.Status
	}
	client.UpdatedAt = s.clock.Now()
	changes["updated_at"] = client.UpdatedAt

	if err := s.store.Update(ctx, client.ID.String(), changes); err != nil {
		return domain.Client{}, err
	}
	return *client, nil
}

// Delete removes the client record only. Jobs keep their client_id as a
// dangling weak reference.
func (s *Service) Delete(ctx context.Context, req domain.DeleteClientRequest) error {
	client, err := s.find(ctx, req.ID)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, client.ID.String())
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Client, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	id, err := snowflake.ParseString(rawID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	client, err := s.store.FindOne(ctx, &domain.Client{ID: id, UserID: userID})
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

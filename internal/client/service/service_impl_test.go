package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/estilistapro/estilista/internal/client/domain"
	"github.com/estilistapro/estilista/internal/clock"
	"github.com/estilistapro/estilista/internal/usercontext"
	"github.com/estilistapro/estilista/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

const testUserID int64 = 42

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Client{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(testNow),
		Store: repository.ProvideStore[domain.Client](db),
	})
}

func testCtx() context.Context {
	return usercontext.WithUserID(context.Background(), testUserID)
}

func TestCreateClientDefaultsStatus(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(testCtx(), domain.CreateClientRequest{
		Name:  "  Maria  ",
		Phone: "555-0101",
	})
	require.NoError(t, err)
	require.Equal(t, "Maria", created.Name)
	require.Equal(t, domain.StatusGood, created.Status)
}

func TestCreateClientValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(testCtx(), domain.CreateClientRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(testCtx(), domain.CreateClientRequest{Name: "Maria", Status: "vip"})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Create(context.Background(), domain.CreateClientRequest{Name: "Maria"})
	require.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestUpdateClient(t *testing.T) {
	svc := newTestService(t)
	ctx := testCtx()

	created, err := svc.Create(ctx, domain.CreateClientRequest{Name: "Maria"})
	require.NoError(t, err)

	status := domain.StatusWarning
	notes := "late twice"
	updated, err := svc.Update(ctx, domain.UpdateClientRequest{
		ID:     created.ID.String(),
		Status: &status,
		Notes:  &notes,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusWarning, updated.Status)
	require.Equal(t, "late twice", updated.Notes)
	require.Equal(t, "Maria", updated.Name)

	bad := domain.Status("vip")
	_, err = svc.Update(ctx, domain.UpdateClientRequest{ID: created.ID.String(), Status: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateClientClearsOptionalFields(t *testing.T) {
	svc := newTestService(t)
	ctx := testCtx()

	created, err := svc.Create(ctx, domain.CreateClientRequest{
		Name:  "Maria",
		Phone: "555-1234",
		Notes: "prefers mornings",
	})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(ctx, domain.UpdateClientRequest{
		ID:    created.ID.String(),
		Phone: &empty,
		Notes: &empty,
	})
	require.NoError(t, err)
	require.Empty(t, updated.Phone)
	require.Empty(t, updated.Notes)

	// The cleared values must survive the write, not just the response.
	found, err := svc.GetByID(ctx, domain.GetClientRequest{ID: created.ID.String()})
	require.NoError(t, err)
	require.Empty(t, found.Phone)
	require.Empty(t, found.Notes)
	require.Equal(t, "Maria", found.Name)
}

func TestGetAndDeleteClientScopedToUser(t *testing.T) {
	svc := newTestService(t)
	ctx := testCtx()

	created, err := svc.Create(ctx, domain.CreateClientRequest{Name: "Maria"})
	require.NoError(t, err)

	otherCtx := usercontext.WithUserID(context.Background(), testUserID+1)
	_, err = svc.GetByID(otherCtx, domain.GetClientRequest{ID: created.ID.String()})
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(otherCtx, domain.DeleteClientRequest{ID: created.ID.String()})
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, domain.DeleteClientRequest{ID: created.ID.String()}))
	_, err = svc.GetByID(ctx, domain.GetClientRequest{ID: created.ID.String()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListClientsPaginates(t *testing.T) {
	svc := newTestService(t)
	ctx := testCtx()

	for _, name := range []string{"Ana", "Bea", "Carla", "Dora"} {
		_, err := svc.Create(ctx, domain.CreateClientRequest{Name: name})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListClientRequest{PageSize: 3})
	require.NoError(t, err)
	require.Len(t, resp.Clients, 3)
	require.True(t, resp.HasMore)

	resp, err = svc.List(ctx, domain.ListClientRequest{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, resp.Clients, 4)
	require.False(t, resp.HasMore)
}

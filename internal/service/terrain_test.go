package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
	"github.com/scoutcamp/campo/internal/repository/dao"
	"github.com/scoutcamp/campo/internal/testutil"
)

func TestTerrainService_Create(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewTerrainService(repository.NewTerrainRepository(dao.NewTerrainDAO(conn)))
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.Terrain{
		Name:      "  Prato Grande ",
		Tags:      " bosco, ,acqua ",
		Polygon:   []domain.Coordinate{{45, 11}, {46, 11}, {46, 12}, {45, 12}},
		ImageURLs: []string{" https://example.org/a.jpg ", "", "  "},
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Prato Grande", created.Name)
	assert.Equal(t, "bosco,acqua", created.Tags)
	assert.InDelta(t, 45.5, created.CenterLat, 1e-9)
	assert.InDelta(t, 11.5, created.CenterLon, 1e-9)
	assert.Equal(t, []string{"https://example.org/a.jpg"}, created.ImageURLs)

	found, err := svc.FindByName(ctx, "Prato Grande")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Len(t, found.Polygon, 4)

	_, err = svc.Create(ctx, domain.Terrain{Name: "Prato Grande"})
	assert.ErrorIs(t, err, ErrTerrainNameExists)
}

func TestTerrainService_Create_KeepsExplicitCenter(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewTerrainService(repository.NewTerrainRepository(dao.NewTerrainDAO(conn)))

	created, err := svc.Create(context.Background(), domain.Terrain{
		Name:      "Radura",
		CenterLat: 44.1,
		CenterLon: 10.2,
		Polygon:   []domain.Coordinate{{45, 11}, {46, 11}, {46, 12}},
	})
	require.NoError(t, err)

	assert.Equal(t, 44.1, created.CenterLat)
	assert.Equal(t, 10.2, created.CenterLon)
}

func TestTerrainService_Create_InvalidPolygon(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewTerrainService(repository.NewTerrainRepository(dao.NewTerrainDAO(conn)))

	_, err := svc.Create(context.Background(), domain.Terrain{
		Name:    "Linea",
		Polygon: []domain.Coordinate{{45, 11}, {46, 11}},
	})
	assert.ErrorIs(t, err, ErrInvalidPolygon)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTerrainService_Update(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewTerrainService(repository.NewTerrainRepository(dao.NewTerrainDAO(conn)))
	ctx := context.Background()

	terrain := testutil.CreateTerrain(t, conn, "Campo Nord")
	testutil.CreateTerrain(t, conn, "Campo Sud")

	updated, err := svc.Update(ctx, domain.Terrain{
		ID:          terrain.ID,
		Name:        "Campo Nord",
		Tags:        "prato",
		CenterLat:   45.5,
		CenterLon:   11.5,
		Description: " vicino al fiume ",
	})
	require.NoError(t, err)
	assert.Equal(t, "vicino al fiume", updated.Description)
	assert.Equal(t, "prato", updated.Tags)

	_, err = svc.Update(ctx, domain.Terrain{ID: terrain.ID, Name: "Campo Sud"})
	assert.ErrorIs(t, err, ErrTerrainNameExists)
}

func TestTerrainService_Delete_RemovesReservations(t *testing.T) {
	conn := testutil.NewDB(t)
	terrainRepo := repository.NewTerrainRepository(dao.NewTerrainDAO(conn))
	svc := NewTerrainService(terrainRepo)
	reservations := NewReservationService(repository.NewReservationRepository(conn), terrainRepo, 4, time.UTC)
	ctx := context.Background()

	unit := testutil.CreateUnit(t, conn, "Reparto Aquile", "Nord")
	terrain := testutil.CreateTerrain(t, conn, "Campo Nord")

	_, err := reservations.Book(ctx, terrain.ID, unit.ID, at(10), 2)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, terrain.ID))

	_, err = svc.Get(ctx, terrain.ID)
	assert.ErrorIs(t, err, ErrTerrainNotFound)

	left, err := reservations.ListByUnit(ctx, unit.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	err = svc.Delete(ctx, terrain.ID)
	assert.ErrorIs(t, err, ErrTerrainNotFound)
}
